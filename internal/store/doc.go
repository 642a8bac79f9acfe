// Package store defines the task persistence contract and the error taxonomy
// shared by every implementation: not found, ambiguous result, storage and
// connection failures, all wrapped in StoreError with the entity and
// operation that failed. Implementations live under internal/platform.
package store

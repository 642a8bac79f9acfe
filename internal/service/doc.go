// Package service contains the application use cases for tasks. It sits
// between the delivery layers (cmd/taskstore and internal/api) and the
// store.TaskStore interface, adding title validation, serialized access to
// the store, and translation of zero-row results into ErrTaskNotFound.
//
// The service depends on domain entities and the store interfaces, never on
// a specific storage implementation.
package service

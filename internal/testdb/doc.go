// Package testdb provides utilities for integration tests that need a real
// PostgreSQL database.
//
// The database comes from DATABASE_URL (or TASKSTORE_DATABASE_URL) when set.
// Otherwise a disposable PostgreSQL container is started through
// testcontainers, and tests are skipped when no container runtime is
// available. Migrations are applied once per database handle, and WithTx
// gives each test its own transaction that is rolled back afterwards.
//
// Files using this package should carry the "integration" build tag:
//
//	//go:build integration
package testdb

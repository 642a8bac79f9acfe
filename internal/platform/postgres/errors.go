package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskstore/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"
)

// MapError maps a database error onto the store error taxonomy.
// The original error stays in the chain, so errors.As can still reach the
// underlying *pgconn.PgError.
//
// Errors the engine produced are storage errors. Errors that show the
// statement never got an answer (dial failures, dropped connections,
// cancelled contexts) are connection errors. Anything else happened after
// the engine answered, typically while mapping a row, and is reported as a
// storage error.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	if errors.Is(err, pgx.ErrTooManyRows) {
		return fmt.Errorf("%w: %w", store.ErrAmbiguousResult, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case IsUniqueViolation(err):
			return fmt.Errorf("%w: %w: %w", store.ErrStorage, store.ErrDuplicate, err)
		case pgErr.Code == checkViolationCode:
			return fmt.Errorf(
				"%w: %w: check constraint violation (%s): %w",
				store.ErrStorage,
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case IsNotNullViolation(err):
			return fmt.Errorf(
				"%w: %w: not null violation (%s): %w",
				store.ErrStorage,
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		}
		return fmt.Errorf("%w: %w", store.ErrStorage, err)
	}

	if isConnectionFailure(err) {
		return fmt.Errorf("%w: %w", store.ErrConnection, err)
	}

	return fmt.Errorf("%w: %w", store.ErrStorage, err)
}

// isConnectionFailure reports whether err means the engine never answered.
func isConnectionFailure(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// pgconn marks errors raised before anything reached the server, such
	// as using a closed or busy connection, as safe to retry.
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsNotNullViolation checks if the given error is a PostgreSQL not null constraint violation.
func IsNotNullViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == notNullViolationCode
}

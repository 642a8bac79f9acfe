package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskstore/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every method issues exactly one statement. Write methods report the
// number of rows the statement touched; a count of 0 from Complete or
// Delete means no task has the given ID and is not an error.
type TaskStore interface {
	// EnsureSchema creates the tasks table if it does not exist.
	// Calling it repeatedly is safe.
	EnsureSchema(ctx context.Context) error

	// Create inserts a task with the given title. The engine assigns the ID
	// and completed starts out false. Returns the affected-row count.
	Create(ctx context.Context, title string) (int64, error)

	// Insert behaves like Create but returns the stored task, including the
	// engine-assigned ID.
	Insert(ctx context.Context, title string) (*domain.Task, error)

	// Complete marks the task as completed. Returns 1 when the task exists
	// (even if it was already complete) and 0 when it does not.
	Complete(ctx context.Context, id uuid.UUID) (int64, error)

	// Delete permanently removes the task. Returns the affected-row count.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)

	// GetByID retrieves exactly one task.
	// Returns ErrNotFound when no row matches and ErrAmbiguousResult when
	// more than one does.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetAll retrieves every stored task. Order is not defined.
	GetAll(ctx context.Context) ([]domain.Task, error)
}

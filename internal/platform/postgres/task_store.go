package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/taskstore/internal/domain"
	"github.com/phrazzld/taskstore/internal/store"
)

// taskColumns is the column list every task query selects. Rows are mapped
// onto domain.Task by position, so this order must match the struct.
const taskColumns = "id, title, completed"

const (
	// gen_random_uuid is built into PostgreSQL 13 and later.
	createTasksTableSQL = `CREATE TABLE IF NOT EXISTS tasks (
	id        UUID    PRIMARY KEY DEFAULT gen_random_uuid(),
	title     TEXT    NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT false
)`

	insertTaskSQL          = `INSERT INTO tasks (title) VALUES ($1)`
	insertTaskReturningSQL = `INSERT INTO tasks (title) VALUES ($1) RETURNING ` + taskColumns
	completeTaskSQL        = `UPDATE tasks SET completed = true WHERE id = $1`
	deleteTaskSQL          = `DELETE FROM tasks WHERE id = $1`
	selectTaskByIDSQL      = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	selectAllTasksSQL      = `SELECT ` + taskColumns + ` FROM tasks`
)

const taskEntity = "task"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// It performs no locking. When db is a single *pgx.Conn the caller must
// serialize access.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a connection, pool or transaction that is initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// EnsureSchema implements store.TaskStore.EnsureSchema
func (s *PostgresTaskStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTasksTableSQL); err != nil {
		return s.fail(ctx, "ensure_schema", "failed to create tasks table", err)
	}

	s.logger.DebugContext(ctx, "tasks table ensured")
	return nil
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, title string) (int64, error) {
	tag, err := s.db.Exec(ctx, insertTaskSQL, title)
	if err != nil {
		return 0, s.fail(ctx, "create", "failed to insert task", err)
	}

	return tag.RowsAffected(), nil
}

// Insert implements store.TaskStore.Insert
func (s *PostgresTaskStore) Insert(ctx context.Context, title string) (*domain.Task, error) {
	rows, err := s.db.Query(ctx, insertTaskReturningSQL, title)
	if err != nil {
		return nil, s.fail(ctx, "insert", "failed to insert task", err)
	}

	task, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Task])
	if err != nil {
		return nil, s.fail(ctx, "insert", "failed to read inserted task", err)
	}

	return &task, nil
}

// Complete implements store.TaskStore.Complete
//
// PostgreSQL counts every matched row as affected, so completing a task
// that is already complete still returns 1.
func (s *PostgresTaskStore) Complete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx, completeTaskSQL, id)
	if err != nil {
		return 0, s.fail(ctx, "complete", "failed to complete task", err, slog.String("task_id", id.String()))
	}

	affected := tag.RowsAffected()
	if affected == 0 {
		s.logger.DebugContext(ctx, "no task found to complete", slog.String("task_id", id.String()))
	}

	return affected, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteTaskSQL, id)
	if err != nil {
		return 0, s.fail(ctx, "delete", "failed to delete task", err, slog.String("task_id", id.String()))
	}

	affected := tag.RowsAffected()
	if affected == 0 {
		s.logger.DebugContext(ctx, "no task found to delete", slog.String("task_id", id.String()))
	}

	return affected, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	rows, err := s.db.Query(ctx, selectTaskByIDSQL, id)
	if err != nil {
		return nil, s.fail(ctx, "get_by_id", "failed to query task", err, slog.String("task_id", id.String()))
	}

	task, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Task])
	if err != nil {
		return nil, s.fail(ctx, "get_by_id", "failed to fetch task", err, slog.String("task_id", id.String()))
	}

	return &task, nil
}

// GetAll implements store.TaskStore.GetAll
func (s *PostgresTaskStore) GetAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.Query(ctx, selectAllTasksSQL)
	if err != nil {
		return nil, s.fail(ctx, "get_all", "failed to query tasks", err)
	}

	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Task])
	if err != nil {
		return nil, s.fail(ctx, "get_all", "failed to fetch tasks", err)
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}

	return tasks, nil
}

// fail maps err onto the store taxonomy, logs it and wraps it in a StoreError.
// Not-found results are expected outcomes and are only logged at debug level.
func (s *PostgresTaskStore) fail(
	ctx context.Context,
	operation string,
	message string,
	err error,
	attrs ...any,
) error {
	mapped := MapError(err)

	attrs = append(attrs,
		slog.String("operation", operation),
		slog.String("error", err.Error()))

	if store.IsNotFoundError(mapped) {
		s.logger.DebugContext(ctx, message, attrs...)
		return store.NewStoreError(taskEntity, operation, "task not found",
			fmt.Errorf("%w: %w", store.ErrTaskNotFound, err))
	}

	s.logger.ErrorContext(ctx, message, attrs...)
	return store.NewStoreError(taskEntity, operation, message, mapped)
}

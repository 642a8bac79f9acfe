package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"syscall"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/phrazzld/taskstore/internal/domain"
	"github.com/phrazzld/taskstore/internal/platform/logger"
	"github.com/phrazzld/taskstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockStore returns a task store backed by a single mocked connection.
// Queries are matched literally (whitespace-insensitive).
func newMockStore(t *testing.T) (*PostgresTaskStore, pgxmock.PgxConnIface, *logger.TestLogBuffer) {
	t.Helper()

	mock, err := pgxmock.NewConn(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	l, buf := logger.NewTestLogger(t)
	return NewPostgresTaskStore(mock, l), mock, buf
}

func taskRows(mock pgxmock.PgxConnIface) *pgxmock.Rows {
	return mock.NewRows([]string{"id", "title", "completed"})
}

var connReset = &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}

func TestNewPostgresTaskStore(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)

	tests := []struct {
		name        string
		db          store.DBTX
		logger      *slog.Logger
		expectPanic bool
	}{
		{
			name:        "nil_db_panics",
			db:          nil,
			logger:      slog.Default(),
			expectPanic: true,
		},
		{
			name:   "valid_db_with_logger",
			db:     mock,
			logger: slog.Default(),
		},
		{
			name:   "valid_db_nil_logger_uses_default",
			db:     mock,
			logger: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectPanic {
				assert.Panics(t, func() { NewPostgresTaskStore(tt.db, tt.logger) })
				return
			}
			s := NewPostgresTaskStore(tt.db, tt.logger)
			assert.NotNil(t, s)
			assert.NotNil(t, s.db)
			assert.NotNil(t, s.logger)
		})
	}
}

// The positional mapping depends on this exact column order.
func TestTaskQueriesSelectColumnsInStructOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id, title, completed", taskColumns)
	assert.Equal(t, "SELECT id, title, completed FROM tasks WHERE id = $1", selectTaskByIDSQL)
	assert.Equal(t, "SELECT id, title, completed FROM tasks", selectAllTasksSQL)
	assert.Equal(t, "INSERT INTO tasks (title) VALUES ($1) RETURNING id, title, completed", insertTaskReturningSQL)
}

func TestPostgresTaskStore_EnsureSchema(t *testing.T) {
	t.Parallel()

	t.Run("runs idempotent DDL each time", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		ctx := context.Background()

		mock.ExpectExec(createTasksTableSQL).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
		mock.ExpectExec(createTasksTableSQL).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

		require.NoError(t, s.EnsureSchema(ctx))
		require.NoError(t, s.EnsureSchema(ctx))
	})

	t.Run("permission denied is a storage error", func(t *testing.T) {
		t.Parallel()
		s, mock, buf := newMockStore(t)

		mock.ExpectExec(createTasksTableSQL).
			WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for schema public"})

		err := s.EnsureSchema(context.Background())

		require.Error(t, err)
		assert.True(t, store.IsStorageError(err))
		assert.False(t, store.IsConnectionError(err))

		var storeErr *store.StoreError
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, "ensure_schema", storeErr.Operation)
		assert.Contains(t, buf.String(), "failed to create tasks table")
	})

	t.Run("unreachable engine is a connection error", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)

		mock.ExpectExec(createTasksTableSQL).WillReturnError(connReset)

		err := s.EnsureSchema(context.Background())

		assert.True(t, store.IsConnectionError(err))
		assert.False(t, store.IsStorageError(err))
	})
}

func TestPostgresTaskStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("returns affected rows", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)

		mock.ExpectExec(insertTaskSQL).
			WithArgs("Buy milk").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		affected, err := s.Create(context.Background(), "Buy milk")

		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("unique violation is a duplicate storage error", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)

		mock.ExpectExec(insertTaskSQL).
			WithArgs("Buy milk").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "tasks_pkey"})

		affected, err := s.Create(context.Background(), "Buy milk")

		assert.Zero(t, affected)
		assert.True(t, store.IsStorageError(err))
		assert.True(t, store.IsDuplicateError(err))
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("connection loss is a connection error", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)

		mock.ExpectExec(insertTaskSQL).
			WithArgs("Buy milk").
			WillReturnError(io.ErrUnexpectedEOF)

		_, err := s.Create(context.Background(), "Buy milk")

		assert.True(t, store.IsConnectionError(err))
	})
}

func TestPostgresTaskStore_Insert(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored task", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectQuery(insertTaskReturningSQL).
			WithArgs("Buy milk").
			WillReturnRows(taskRows(mock).AddRow(id, "Buy milk", false))

		task, err := s.Insert(context.Background(), "Buy milk")

		require.NoError(t, err)
		assert.Equal(t, &domain.Task{ID: id, Title: "Buy milk", Completed: false}, task)
	})

	t.Run("not null violation is an invalid entity", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)

		mock.ExpectQuery(insertTaskReturningSQL).
			WithArgs("").
			WillReturnError(&pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"})

		task, err := s.Insert(context.Background(), "")

		assert.Nil(t, task)
		assert.True(t, store.IsStorageError(err))
		assert.True(t, errors.Is(err, store.ErrInvalidEntity))
		assert.True(t, IsNotNullViolation(err))
	})
}

func TestPostgresTaskStore_Complete(t *testing.T) {
	t.Parallel()

	t.Run("existing task", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectExec(completeTaskSQL).WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		// PostgreSQL reports the row again when the flag is already set
		mock.ExpectExec(completeTaskSQL).WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		first, err := s.Complete(context.Background(), id)
		require.NoError(t, err)
		second, err := s.Complete(context.Background(), id)
		require.NoError(t, err)

		assert.Equal(t, int64(1), first)
		assert.Equal(t, int64(1), second)
	})

	t.Run("unknown task affects no rows and is not an error", func(t *testing.T) {
		t.Parallel()
		s, mock, buf := newMockStore(t)
		id := uuid.New()

		mock.ExpectExec(completeTaskSQL).WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		affected, err := s.Complete(context.Background(), id)

		require.NoError(t, err)
		assert.Zero(t, affected)
		assert.Contains(t, buf.String(), "no task found to complete")
	})

	t.Run("cancelled context is a connection error", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectExec(completeTaskSQL).WithArgs(id).WillReturnError(context.Canceled)

		_, err := s.Complete(context.Background(), id)

		assert.True(t, store.IsConnectionError(err))
	})
}

func TestPostgresTaskStore_Delete(t *testing.T) {
	t.Parallel()

	t.Run("existing task", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectExec(deleteTaskSQL).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))

		affected, err := s.Delete(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectExec(deleteTaskSQL).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		affected, err := s.Delete(context.Background(), id)

		require.NoError(t, err)
		assert.Zero(t, affected)
	})

	t.Run("engine failure", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectExec(deleteTaskSQL).WithArgs(id).WillReturnError(connReset)

		affected, err := s.Delete(context.Background(), id)

		assert.Zero(t, affected)
		assert.True(t, store.IsConnectionError(err))

		var storeErr *store.StoreError
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, "task", storeErr.Entity)
		assert.Equal(t, "delete", storeErr.Operation)
	})
}

func TestPostgresTaskStore_GetByID(t *testing.T) {
	t.Parallel()

	t.Run("maps columns by position", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectQuery(selectTaskByIDSQL).
			WithArgs(id).
			WillReturnRows(taskRows(mock).AddRow(id, "Buy milk", true))

		task, err := s.GetByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, task.ID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.True(t, task.Completed)
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		t.Parallel()
		s, mock, buf := newMockStore(t)
		id := uuid.New()

		mock.ExpectQuery(selectTaskByIDSQL).WithArgs(id).WillReturnRows(taskRows(mock))

		task, err := s.GetByID(context.Background(), id)

		assert.Nil(t, task)
		assert.True(t, store.IsNotFoundError(err))
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
		assert.False(t, store.IsStorageError(err))
		assert.False(t, store.IsConnectionError(err))

		entries, logErr := buf.GetLogEntries()
		require.NoError(t, logErr)
		require.NotEmpty(t, entries)
		assert.Equal(t, "DEBUG", entries[len(entries)-1]["level"])
	})

	t.Run("more than one row is ambiguous", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectQuery(selectTaskByIDSQL).
			WithArgs(id).
			WillReturnRows(taskRows(mock).
				AddRow(id, "first", false).
				AddRow(id, "second", false))

		task, err := s.GetByID(context.Background(), id)

		assert.Nil(t, task)
		assert.True(t, store.IsAmbiguousResultError(err))
		assert.False(t, store.IsNotFoundError(err))
	})

	t.Run("columns out of order fail to map", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectQuery(selectTaskByIDSQL).
			WithArgs(id).
			WillReturnRows(mock.NewRows([]string{"title", "id", "completed"}).AddRow("Buy milk", id, false))

		task, err := s.GetByID(context.Background(), id)

		assert.Nil(t, task)
		assert.True(t, store.IsStorageError(err))
	})

	t.Run("query failure is returned, not raised", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		id := uuid.New()

		mock.ExpectQuery(selectTaskByIDSQL).WithArgs(id).WillReturnError(connReset)

		var (
			task *domain.Task
			err  error
		)
		assert.NotPanics(t, func() { task, err = s.GetByID(context.Background(), id) })
		assert.Nil(t, task)
		assert.True(t, store.IsConnectionError(err))
	})
}

func TestPostgresTaskStore_GetAll(t *testing.T) {
	t.Parallel()

	t.Run("returns every row", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)
		first, second := uuid.New(), uuid.New()

		mock.ExpectQuery(selectAllTasksSQL).
			WillReturnRows(taskRows(mock).
				AddRow(first, "Buy milk", false).
				AddRow(second, "Walk dog", true))

		tasks, err := s.GetAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []domain.Task{
			{ID: first, Title: "Buy milk", Completed: false},
			{ID: second, Title: "Walk dog", Completed: true},
		}, tasks)
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)

		mock.ExpectQuery(selectAllTasksSQL).WillReturnRows(taskRows(mock))

		tasks, err := s.GetAll(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("connection dropped while reading rows", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)

		mock.ExpectQuery(selectAllTasksSQL).
			WillReturnRows(taskRows(mock).
				AddRow(uuid.New(), "Buy milk", false).
				CloseError(io.ErrUnexpectedEOF))

		tasks, err := s.GetAll(context.Background())

		assert.Nil(t, tasks)
		assert.True(t, store.IsConnectionError(err))
	})

	t.Run("query rejected", func(t *testing.T) {
		t.Parallel()
		s, mock, _ := newMockStore(t)

		mock.ExpectQuery(selectAllTasksSQL).
			WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "tasks" does not exist`})

		tasks, err := s.GetAll(context.Background())

		assert.Nil(t, tasks)
		assert.True(t, store.IsStorageError(err))
	})
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskstore/internal/domain"
	"github.com/phrazzld/taskstore/internal/store"
)

// TaskService provides task operations for the delivery layers (CLI and HTTP).
type TaskService interface {
	// EnsureSchema creates the tasks table if it does not exist.
	EnsureSchema(ctx context.Context) error

	// CreateTask validates the title and stores a new, incomplete task.
	CreateTask(ctx context.Context, title string) (*domain.Task, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves every task.
	ListTasks(ctx context.Context) ([]domain.Task, error)

	// CompleteTask marks a task as completed.
	// Returns ErrTaskNotFound when no task has the given ID.
	CompleteTask(ctx context.Context, id uuid.UUID) error

	// DeleteTask permanently removes a task.
	// Returns ErrTaskNotFound when no task has the given ID.
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "complete_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel errors directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if store.IsNotFoundError(err) {
		return ErrTaskNotFound
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// taskServiceImpl implements the TaskService interface.
//
// Calls are serialized because the underlying store may sit on a single
// connection, which cannot run statements concurrently.
type taskServiceImpl struct {
	mu     sync.Mutex
	store  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if taskStore is nil.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		store:  taskStore,
		logger: logger.With("component", "task_service"),
	}, nil
}

// EnsureSchema implements TaskService.EnsureSchema
func (s *taskServiceImpl) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.EnsureSchema(ctx); err != nil {
		return NewTaskServiceError("ensure_schema", "failed to ensure schema", err)
	}
	return nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, title string) (*domain.Task, error) {
	if err := domain.ValidateTitle(title); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.Insert(ctx, title)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}
	if err := task.Validate(); err != nil {
		return nil, NewTaskServiceError("create_task", "store returned an invalid task", err)
	}

	s.logger.InfoContext(ctx, "task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to retrieve tasks", err)
	}
	return tasks, nil
}

// CompleteTask implements TaskService.CompleteTask
func (s *taskServiceImpl) CompleteTask(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected, err := s.store.Complete(ctx, id)
	if err != nil {
		return NewTaskServiceError("complete_task", "failed to complete task", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	s.logger.InfoContext(ctx, "task completed", slog.String("task_id", id.String()))
	return nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected, err := s.store.Delete(ctx, id)
	if err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	s.logger.InfoContext(ctx, "task deleted", slog.String("task_id", id.String()))
	return nil
}

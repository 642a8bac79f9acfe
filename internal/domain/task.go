package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID    = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
)

// Task is the single persisted entity: an engine-assigned identifier,
// a text label and a one-way completion flag.
//
// Field order matches the column order of the tasks table
// (id, title, completed). Rows are mapped by position, so the two must
// be kept in sync.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

// ValidateTitle checks that a title is usable for a new task.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTaskTitle
	}
	return nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	return ValidateTitle(t.Title)
}

// IsComplete reports whether the task has been marked complete.
func (t *Task) IsComplete() bool {
	return t.Completed
}

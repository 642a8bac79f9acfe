package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/taskstore/internal/api/shared"
	"github.com/phrazzld/taskstore/internal/domain"
	"github.com/phrazzld/taskstore/internal/service"
	"github.com/phrazzld/taskstore/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"service not found", service.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
		{"store not found", fmt.Errorf("get: %w", store.ErrTaskNotFound), http.StatusNotFound, "Task not found"},
		{"empty title", fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyTaskTitle), http.StatusBadRequest, "Task title cannot be empty"},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest, "Invalid task ID"},
		{"invalid entity", fmt.Errorf("%w: %w", store.ErrStorage, store.ErrInvalidEntity), http.StatusBadRequest, "Invalid task data"},
		{"duplicate", fmt.Errorf("%w: %w", store.ErrStorage, store.ErrDuplicate), http.StatusConflict, "Task already exists"},
		{"connection", store.ErrConnection, http.StatusServiceUnavailable, "Database unavailable"},
		{"ambiguous", store.ErrAmbiguousResult, http.StatusInternalServerError, "An unexpected error occurred"},
		{"storage", store.ErrStorage, http.StatusInternalServerError, "An unexpected error occurred"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.expectedMessage, GetSafeErrorMessage(tt.err))
		})
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.ValidateRequest(&CreateTaskRequest{})
	assert.Equal(t, "Invalid title: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("Key: 'CreateTaskRequest.Title'")))
}

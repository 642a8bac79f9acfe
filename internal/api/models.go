package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/taskstore/internal/domain"
)

// CreateTaskRequest defines the payload for creating a task.
// Blank titles pass the tag check and are rejected by the service.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required,max=500"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

// TaskListResponse wraps the result of listing tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
	}
}

func tasksToResponse(tasks []domain.Task) TaskListResponse {
	resp := TaskListResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Count: len(tasks),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, taskToResponse(&tasks[i]))
	}
	return resp
}

package api

import "taskdesk/internal/models"

// TaskCreateRequest defines the payload for creating a task.
// Every field is optional; missing fields fall back to documented defaults
// (title "Untitled Task", empty description, status "pending").
type TaskCreateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// TaskUpdateRequest defines the payload for updating a task. Only fields
// present in the body are merged into the stored record.
type TaskUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Message string      `json:"message"`
	Task    models.Task `json:"task"`
}

// TaskListResponse is the response from GET /tasks.
type TaskListResponse struct {
	Message string        `json:"message"`
	Count   int           `json:"count"`
	Tasks   []models.Task `json:"tasks"`
}

// TaskDeleteResponse summarizes a deleted task.
type TaskDeleteResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
	Title   string `json:"title"`
}

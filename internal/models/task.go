package models

import "time"

const (
	// DefaultTaskTitle is used when a create request carries no title.
	DefaultTaskTitle = "Untitled Task"
	// DefaultTaskStatus is used when a create request carries no status.
	DefaultTaskStatus = "pending"
)

// Task represents a single task record.
type Task struct {
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package store

import (
	"context"
	"time"

	"taskdesk/internal/models"
)

// TaskUpdate carries the fields to change on a task. Nil pointers leave the
// stored value untouched; UpdatedAt is always written.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	UpdatedAt   time.Time
}

// TaskStore is the narrow record-store contract the task service depends on:
// single-key get/put/update/delete plus a full-table scan. Implementations
// guarantee per-key atomicity only; callers must not assume anything across
// two calls.
type TaskStore interface {
	TaskExists(ctx context.Context, id string) (bool, error)
	PutTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, update TaskUpdate) (bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	ScanTasks(ctx context.Context) ([]models.Task, error)
}

// User is one account row in the local identity directory.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Confirmed     bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IdentityStore is the persistence contract for the local identity provider.
type IdentityStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	SetUserPassword(ctx context.Context, email, passwordHash string, confirmed bool, now time.Time) (bool, error)
	SaveResetCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	ConsumeResetCode(ctx context.Context, email, codeHash string, now time.Time) (bool, error)
}

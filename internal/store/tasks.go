package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taskdesk/internal/models"
)

// TaskExists checks whether a task exists by id.
func (s *Store) TaskExists(ctx context.Context, id string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE task_id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PutTask inserts a task record.
func (s *Store) PutTask(ctx context.Context, task *models.Task) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (task_id, title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		task.TaskID,
		task.Title,
		nullIfEmpty(task.Description),
		task.Status,
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	return err
}

// GetTask returns a task by id, or nil when absent.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT task_id, title, description, status, created_at, updated_at
		FROM tasks WHERE task_id = ?
	`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask merges the present fields of update into the stored record.
// Returns false when no task with the id exists.
func (s *Store) UpdateTask(ctx context.Context, id string, update TaskUpdate) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("id is required")
	}

	set := []string{"updated_at = ?"}
	args := []any{formatTime(update.UpdatedAt)}

	if update.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		set = append(set, "description = ?")
		args = append(args, nullIfEmpty(*update.Description))
	}
	if update.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *update.Status)
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE tasks SET %s WHERE task_id = ?", strings.Join(set, ", ")),
		args...,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteTask removes a task record. Returns false when no row matched.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE task_id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ScanTasks returns every task record. No ordering is applied here; the
// service layer sorts after retrieval.
func (s *Store) ScanTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, title, description, status, created_at, updated_at
		FROM tasks
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*models.Task, error) {
	var task models.Task
	var description sql.NullString
	var createdAt, updatedAt string

	if err := scanner.Scan(
		&task.TaskID,
		&task.Title,
		&description,
		&task.Status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	task.Description = description.String

	var err error
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &task, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

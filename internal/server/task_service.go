package server

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/api"
	"taskdesk/internal/models"
	"taskdesk/internal/store"
)

// TaskService implements task CRUD on top of a TaskStore. Tasks are keyed
// by server-assigned UUIDs; deleting a task does not touch its files.
type TaskService struct {
	store store.TaskStore
}

func NewTaskService(st store.TaskStore) *TaskService {
	return &TaskService{store: st}
}

func (s *TaskService) Create(ctx context.Context, req api.TaskCreateRequest) (*models.Task, error) {
	now := time.Now().UTC()

	task := &models.Task{
		TaskID:    uuid.NewString(),
		Title:     models.DefaultTaskTitle,
		Status:    models.DefaultTaskStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		task.Status = *req.Status
	}

	if err := s.store.PutTask(ctx, task); err != nil {
		return nil, storeFailure(fmt.Errorf("create task: %w", err))
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("get task: %w", err))
	}
	if task == nil {
		return nil, notFoundCode(fmt.Errorf("task %s not found", taskID), ErrCodeTaskNotFound)
	}
	return task, nil
}

// List returns all tasks, newest first.
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.store.ScanTasks(ctx)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("list tasks: %w", err))
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// Update applies the fields set in req and bumps updated_at. Fields absent
// from the request keep their stored values.
func (s *TaskService) Update(ctx context.Context, taskID string, req api.TaskUpdateRequest) (*models.Task, error) {
	update := store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UpdatedAt:   time.Now().UTC(),
	}

	found, err := s.store.UpdateTask(ctx, taskID, update)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("update task: %w", err))
	}
	if !found {
		return nil, notFoundCode(fmt.Errorf("task %s not found", taskID), ErrCodeTaskNotFound)
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("reload task: %w", err))
	}
	if task == nil {
		return nil, notFoundCode(fmt.Errorf("task %s not found", taskID), ErrCodeTaskNotFound)
	}
	return task, nil
}

// Delete removes the task record only. Uploaded files stay in the blob
// store and remain reachable by file id.
func (s *TaskService) Delete(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("get task: %w", err))
	}
	if task == nil {
		return nil, notFoundCode(fmt.Errorf("task %s not found", taskID), ErrCodeTaskNotFound)
	}

	found, err := s.store.DeleteTask(ctx, taskID)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("delete task: %w", err))
	}
	if !found {
		return nil, notFoundCode(fmt.Errorf("task %s not found", taskID), ErrCodeTaskNotFound)
	}
	return task, nil
}

func (s *TaskService) Exists(ctx context.Context, taskID string) (bool, error) {
	ok, err := s.store.TaskExists(ctx, taskID)
	if err != nil {
		return false, storeFailure(fmt.Errorf("check task: %w", err))
	}
	return ok, nil
}

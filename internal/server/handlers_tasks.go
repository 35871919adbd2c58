package server

import (
	"fmt"
	"net/http"
	"strings"

	"taskdesk/internal/api"
)

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req api.TaskCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	task, err := s.taskService.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("task created", "task_id", task.TaskID, "title", task.Title)
	s.writeJSON(w, http.StatusCreated, api.TaskResponse{
		Message: "Task created successfully",
		Task:    *task,
	})
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.taskService.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.TaskListResponse{
		Message: "Tasks retrieved successfully",
		Count:   len(tasks),
		Tasks:   tasks,
	})
}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if err := validateID(taskID, "task_id"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	task, err := s.taskService.Get(r.Context(), taskID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.TaskResponse{
		Message: "Task retrieved successfully",
		Task:    *task,
	})
}

func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if err := validateID(taskID, "task_id"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req api.TaskUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	task, err := s.taskService.Update(r.Context(), taskID, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("task updated", "task_id", task.TaskID)
	s.writeJSON(w, http.StatusOK, api.TaskResponse{
		Message: "Task updated successfully",
		Task:    *task,
	})
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if err := validateID(taskID, "task_id"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	task, err := s.taskService.Delete(r.Context(), taskID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("task deleted", "task_id", task.TaskID, "title", task.Title)
	s.writeJSON(w, http.StatusOK, api.TaskDeleteResponse{
		Message: "Task deleted successfully",
		TaskID:  task.TaskID,
		Title:   task.Title,
	})
}

func validateID(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return badRequestCode(fmt.Errorf("%s must not be empty", field), ErrCodeMissingRequired)
	}
	return nil
}

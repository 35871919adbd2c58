package server

import (
	"net/http"

	"taskdesk/internal/api"
)

func (s *Server) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if err := validateID(taskID, "task_id"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req api.FileUploadRequest
	if err := decodeJSON(w, r, uploadJSONMaxBody, &req); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, classifyDecodeJSONError(err))
		return
	}

	record, err := s.fileService.Upload(r.Context(), taskID, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, api.FileUploadResponse{
		Message: "File uploaded successfully",
		File:    *record,
	})
}

func (s *Server) handleFileList(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if err := validateID(taskID, "task_id"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	records, err := s.fileService.ListForTask(r.Context(), taskID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.FileListResponse{
		Message: "Files retrieved successfully",
		TaskID:  taskID,
		Count:   len(records),
		Files:   records,
	})
}

func (s *Server) handleFileDownload(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("file_id")
	if err := validateID(fileID, "file_id"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	record, content, err := s.fileService.Download(r.Context(), fileID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.FileDownloadResponse{
		Message:     "File retrieved successfully",
		FileID:      record.FileID,
		FileName:    record.FileName,
		FileSize:    record.FileSize,
		FileContent: content,
	})
}

func (s *Server) handleFileDelete(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("file_id")
	if err := validateID(fileID, "file_id"); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.fileService.Delete(r.Context(), fileID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.FileDeleteResponse{
		Message: "File deleted successfully",
		FileID:  fileID,
	})
}

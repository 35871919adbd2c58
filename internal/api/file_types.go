package api

import "taskdesk/internal/models"

// FileUploadRequest defines the payload for POST /tasks/{id}/files.
// FileContent carries the payload bytes base64-encoded.
type FileUploadRequest struct {
	FileName    string `json:"file_name"`
	FileContent string `json:"file_content"`
	Description string `json:"description,omitempty"`
}

// FileUploadResponse is the response from a successful upload.
type FileUploadResponse struct {
	Message string            `json:"message"`
	File    models.FileRecord `json:"file"`
}

// FileListResponse is the response from GET /tasks/{id}/files.
type FileListResponse struct {
	Message string              `json:"message"`
	TaskID  string              `json:"task_id"`
	Count   int                 `json:"count"`
	Files   []models.FileRecord `json:"files"`
}

// FileDownloadResponse is the response from GET /files/{file_id}.
// FileContent is base64-encoded payload bytes.
type FileDownloadResponse struct {
	Message     string `json:"message"`
	FileID      string `json:"file_id"`
	FileName    string `json:"file_name"`
	FileSize    int64  `json:"file_size"`
	FileContent string `json:"file_content"`
}

// FileDeleteResponse is the response from DELETE /files/{file_id}.
type FileDeleteResponse struct {
	Message string `json:"message"`
	FileID  string `json:"file_id"`
}

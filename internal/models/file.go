package models

import "time"

// FileRecord is the user-facing metadata for one attachment stored in the
// blob store. The payload itself lives under FileRecord key space in the
// store, not on this struct.
type FileRecord struct {
	FileID      string    `json:"file_id"`
	TaskID      string    `json:"task_id"`
	FileName    string    `json:"file_name"`
	Description string    `json:"description,omitempty"`
	FileSize    int64     `json:"file_size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	DownloadURL string    `json:"download_url"`
}

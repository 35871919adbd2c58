package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/api"
	"taskdesk/internal/blobstore"
	"taskdesk/internal/models"
)

const (
	attachmentKeyPrefix = "tasks/"

	metaTaskID      = "task_id"
	metaFileID      = "file_id"
	metaFileName    = "file_name"
	metaDescription = "description"
	metaUploadedAt  = "uploaded_at"
)

// FileService stores task attachments in a blob store under
// tasks/{task_id}/attachments/{file_id}/{file_name}. File lookups by id
// scan the whole attachment namespace, so a file stays reachable even
// after its task is deleted.
type FileService struct {
	blobs  blobstore.BlobStore
	tasks  *TaskService
	logger *slog.Logger
}

func NewFileService(blobs blobstore.BlobStore, tasks *TaskService, logger *slog.Logger) *FileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileService{blobs: blobs, tasks: tasks, logger: logger}
}

func attachmentKey(taskID, fileID, fileName string) string {
	return attachmentKeyPrefix + taskID + "/attachments/" + fileID + "/" + fileName
}

func taskAttachmentsPrefix(taskID string) string {
	return attachmentKeyPrefix + taskID + "/attachments/"
}

func (s *FileService) Upload(ctx context.Context, taskID string, req api.FileUploadRequest) (*models.FileRecord, error) {
	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.FileContent) == "" {
		return nil, withHint(
			badRequestCode(errors.New("file_name and file_content are required"), ErrCodeMissingRequired),
			`{"file_name":"report.pdf","file_content":"<base64>","description":"optional"}`,
		)
	}

	exists, err := s.tasks.Exists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundCode(fmt.Errorf("task %s not found", taskID), ErrCodeTaskNotFound)
	}

	payload, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		return nil, badRequestCode(fmt.Errorf("file_content is not valid base64: %w", err), ErrCodeInvalidEncoding)
	}

	record := models.FileRecord{
		FileID:      uuid.NewString(),
		TaskID:      taskID,
		FileName:    filepath.Base(req.FileName),
		Description: req.Description,
		FileSize:    int64(len(payload)),
		UploadedAt:  time.Now().UTC(),
	}
	record.DownloadURL = "/files/" + record.FileID

	metadata := map[string]string{
		metaTaskID:     record.TaskID,
		metaFileID:     record.FileID,
		metaFileName:   record.FileName,
		metaUploadedAt: record.UploadedAt.Format(time.RFC3339Nano),
	}
	if record.Description != "" {
		metadata[metaDescription] = record.Description
	}

	key := attachmentKey(record.TaskID, record.FileID, record.FileName)
	if err := s.blobs.Put(ctx, key, payload, metadata); err != nil {
		return nil, upstreamFailure(fmt.Errorf("store attachment: %w", err))
	}

	s.logger.Info("file uploaded", "file_id", record.FileID, "task_id", taskID,
		"file_name", record.FileName, "size_bytes", record.FileSize)
	return &record, nil
}

func (s *FileService) ListForTask(ctx context.Context, taskID string) ([]models.FileRecord, error) {
	exists, err := s.tasks.Exists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFoundCode(fmt.Errorf("task %s not found", taskID), ErrCodeTaskNotFound)
	}

	keys, err := s.blobs.List(ctx, taskAttachmentsPrefix(taskID))
	if err != nil {
		return nil, upstreamFailure(fmt.Errorf("list attachments: %w", err))
	}

	records := make([]models.FileRecord, 0, len(keys))
	for _, key := range keys {
		record, err := s.recordFromKey(ctx, key)
		if err != nil {
			s.logger.Warn("skipping unreadable attachment", "key", key, "error", err)
			continue
		}
		records = append(records, *record)
	}
	return records, nil
}

// findKey locates an attachment by file id. Keys are not indexed by file
// id, so this walks every attachment key and matches on the path segment
// that carries the id.
func (s *FileService) findKey(ctx context.Context, fileID string) (string, error) {
	keys, err := s.blobs.List(ctx, attachmentKeyPrefix)
	if err != nil {
		return "", upstreamFailure(fmt.Errorf("scan attachments: %w", err))
	}

	marker := "/attachments/" + fileID + "/"
	for _, key := range keys {
		if strings.Contains(key, marker) {
			return key, nil
		}
	}
	return "", notFoundCode(fmt.Errorf("file %s not found", fileID), ErrCodeFileNotFound)
}

func (s *FileService) Download(ctx context.Context, fileID string) (*models.FileRecord, string, error) {
	key, err := s.findKey(ctx, fileID)
	if err != nil {
		return nil, "", err
	}

	record, err := s.recordFromKey(ctx, key)
	if err != nil {
		return nil, "", upstreamFailure(fmt.Errorf("read attachment metadata: %w", err))
	}

	payload, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, "", notFoundCode(fmt.Errorf("file %s not found", fileID), ErrCodeFileNotFound)
		}
		return nil, "", upstreamFailure(fmt.Errorf("read attachment: %w", err))
	}

	return record, base64.StdEncoding.EncodeToString(payload), nil
}

func (s *FileService) Delete(ctx context.Context, fileID string) error {
	key, err := s.findKey(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, key); err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return notFoundCode(fmt.Errorf("file %s not found", fileID), ErrCodeFileNotFound)
		}
		return upstreamFailure(fmt.Errorf("delete attachment: %w", err))
	}

	s.logger.Info("file deleted", "file_id", fileID, "key", key)
	return nil
}

// recordFromKey rebuilds a FileRecord from an attachment key plus its
// stored metadata. Metadata fields win; the key supplies fallbacks for
// objects written without them.
func (s *FileService) recordFromKey(ctx context.Context, key string) (*models.FileRecord, error) {
	info, err := s.blobs.Head(ctx, key)
	if err != nil {
		return nil, err
	}

	record := models.FileRecord{
		FileID:      info.Metadata[metaFileID],
		TaskID:      info.Metadata[metaTaskID],
		FileName:    info.Metadata[metaFileName],
		Description: info.Metadata[metaDescription],
		FileSize:    info.SizeBytes,
	}
	if ts := info.Metadata[metaUploadedAt]; ts != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			record.UploadedAt = parsed
		}
	}

	// key layout: tasks/{task_id}/attachments/{file_id}/{file_name}
	segs := strings.Split(key, "/")
	if len(segs) >= 5 {
		if record.TaskID == "" {
			record.TaskID = segs[1]
		}
		if record.FileID == "" {
			record.FileID = segs[3]
		}
	}
	if record.FileName == "" {
		record.FileName = path.Base(key)
	}
	record.DownloadURL = "/files/" + record.FileID

	return &record, nil
}

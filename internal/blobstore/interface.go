package blobstore

import "context"

// ObjectInfo describes one stored object: its key, payload size, and the
// user-attached metadata written at put time.
type ObjectInfo struct {
	Key       string
	SizeBytes int64
	Metadata  map[string]string
}

// BlobStore is the object-storage contract the file service depends on:
// put/get/delete by key, list by key prefix, and a metadata-only head.
// Implementations guarantee per-object atomicity only.
type BlobStore interface {
	Put(ctx context.Context, key string, payload []byte, metadata map[string]string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Head(ctx context.Context, key string) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	attrSuffix = ".attr.json"
	tmpDirName = "tmp"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("object not found")

// Local stores object payloads in a directory tree, one file per key, with a
// JSON attribute sidecar next to each payload carrying size and metadata.
type Local struct {
	root string
}

type attrFile struct {
	SizeBytes int64             `json:"size_bytes"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewLocal creates a local blob store rooted at root.
func NewLocal(root string) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, tmpDirName), 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// Put writes the payload and its attribute sidecar under key.
func (l *Local) Put(ctx context.Context, key string, payload []byte, metadata map[string]string) error {
	if l == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.pathFromKey(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Join(l.root, tmpDirName), "put-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	attr := attrFile{SizeBytes: int64(len(payload)), Metadata: metadata}
	data, err := json.Marshal(attr)
	if err != nil {
		return err
	}
	return os.WriteFile(path+attrSuffix, data, 0o644)
}

// Get returns the payload stored under key.
func (l *Local) Get(ctx context.Context, key string) ([]byte, error) {
	if l == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.pathFromKey(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Head returns size and metadata for the object under key without reading
// the payload.
func (l *Local) Head(ctx context.Context, key string) (ObjectInfo, error) {
	var zero ObjectInfo
	if l == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	path, err := l.pathFromKey(key)
	if err != nil {
		return zero, err
	}
	data, err := os.ReadFile(path + attrSuffix)
	if errors.Is(err, os.ErrNotExist) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	var attr attrFile
	if err := json.Unmarshal(data, &attr); err != nil {
		return zero, fmt.Errorf("parse attributes for %s: %w", key, err)
	}
	return ObjectInfo{Key: key, SizeBytes: attr.SizeBytes, Metadata: attr.Metadata}, nil
}

// Delete removes the payload and its sidecar.
func (l *Local) Delete(ctx context.Context, key string) error {
	if l == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.pathFromKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	if err := os.Remove(path + attrSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns every object key starting with prefix, sorted.
func (l *Local) List(ctx context.Context, prefix string) ([]string, error) {
	if l == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys := []string{}
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(l.root, tmpDirName) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, attrSuffix) {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (l *Local) pathFromKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("blob key must be relative")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || strings.Contains(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob key")
	}
	return filepath.Join(l.root, clean), nil
}

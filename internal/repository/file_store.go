package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"galpe/internal/domain"
	"galpe/internal/metrics"
)

// FileStore keeps the user record collection in a single JSON file
type FileStore struct {
	path string
	mu   sync.Mutex
	log  logrus.FieldLogger

	// rename is swapped in tests to simulate a failing medium
	rename func(oldpath, newpath string) error
}

// NewFileStore creates a FileStore backed by path, creating its directory if needed
func NewFileStore(path string, log logrus.FieldLogger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("users file path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileStore{
		path:   path,
		log:    log.WithField("store", "file"),
		rename: os.Rename,
	}, nil
}

// GetAll reads the full collection. A missing file is an empty collection.
func (s *FileStore) GetAll(ctx context.Context) ([]*domain.UserRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*domain.UserRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read users file: %w: %v", domain.ErrStoreUnavailable, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []*domain.UserRecord{}, nil
	}

	var records []*domain.UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode users file: %w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := domain.CheckRecords(records); err != nil {
		return nil, fmt.Errorf("invalid users file: %w", err)
	}

	return records, nil
}

// SaveAll replaces the file contents with records.
// The collection is written to a temp file and renamed over the target,
// so readers see either the old or the new collection.
func (s *FileStore) SaveAll(ctx context.Context, records []*domain.UserRecord) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.RecordStoreSave("file", err == nil, time.Since(start))
	}()

	if records == nil {
		records = []*domain.UserRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = s.rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace users file: %w", err)
	}

	s.log.WithField("records", len(records)).Debug("users file saved")
	return nil
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

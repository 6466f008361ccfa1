// Package store persists finalized order records.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/atelier-shop/assistant-bot/internal/domain"
)

// FileStore appends order records to a pretty-printed JSON array file. The
// whole array is rewritten on each append via a temp file and atomic rename,
// so a crash mid-write never truncates existing records. A single mutex
// serializes appends across sessions; the read-modify-write pattern would
// otherwise lose updates.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

// NewFileStore creates a store writing to the given path. The file is created
// on first append.
func NewFileStore(path string, log *slog.Logger) *FileStore {
	if log == nil {
		log = slog.Default()
	}

	return &FileStore{
		path: path,
		log:  log,
	}
}

// Append adds the record to the end of the stored array.
func (s *FileStore) Append(ctx context.Context, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records = append(records, record)

	if err := s.write(records); err != nil {
		return err
	}

	s.log.Info("order record appended",
		slog.String("product", record.Product),
		slog.Int("total_records", len(records)))

	return nil
}

func (s *FileStore) load() ([]domain.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("read order store %q: %w", s.path, err)
	}

	if len(data) == 0 {
		return []domain.Record{}, nil
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode order store %q: %w", s.path, err)
	}

	return records, nil
}

func (s *FileStore) write(records []domain.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode order store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create order store dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".orders-*.json")
	if err != nil {
		return fmt.Errorf("create temp order store: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp order store: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp order store: %w", err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp order store: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace order store %q: %w", s.path, err)
	}

	return nil
}

// HealthCheck verifies that the store directory is writable.
func (s *FileStore) HealthCheck(ctx context.Context) error {
	dir := filepath.Dir(s.path)

	probe, err := os.CreateTemp(dir, ".healthz-*")
	if err != nil {
		return fmt.Errorf("order store dir %q not writable: %w", dir, err)
	}

	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

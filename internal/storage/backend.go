package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/B1shwas/Khumbaya-sub000/internal/models"
)

// Snapshot is everything the planner persists between runs
type Snapshot struct {
	Guests   []models.Guest      `json:"guests"`
	Rooms    []models.Resource   `json:"rooms"`
	Vehicles []models.Resource   `json:"vehicles"`
	Budget   []models.BudgetItem `json:"budget"`
}

// Backend loads and saves snapshots. Load on an empty backend returns an
// empty snapshot, not an error.
type Backend interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Close() error
}

// FileBackend keeps the snapshot in a single JSON file
type FileBackend struct {
	mu   sync.Mutex
	file string
}

// NewFileBackend creates a backend writing to filePath
func NewFileBackend(filePath string) *FileBackend {
	return &FileBackend{file: filePath}
}

// Load reads the snapshot from file
func (b *FileBackend) Load(_ context.Context) (*Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(b.file)
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	snap := &Snapshot{}
	if len(data) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return snap, nil
}

// Save writes the snapshot to file
func (b *FileBackend) Save(_ context.Context, snap *Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	dir := filepath.Dir(b.file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// write beside the target, then rename over it
	tmp, err := os.CreateTemp(dir, filepath.Base(b.file)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.file); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// Close is a no-op for the file backend
func (b *FileBackend) Close() error {
	return nil
}

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/khanglvm/daily-raffle/internal/fileutil"
)

// DefaultFileName is the conventional history file name.
const DefaultFileName = "raffle_history.json"

// Store loads and saves the whole History as one unit.
type Store interface {
	// Load returns the persisted history, or an empty one if nothing
	// has been persisted yet.
	Load(ctx context.Context) (*History, error)

	// Save overwrites the persisted history with h.
	Save(ctx context.Context, h *History) error
}

// FileStore keeps the history in a single JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore returns a store backed by the JSON file at path.
// The file is created on first save.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the history file. A missing file yields an empty History;
// a file that exists but does not parse is a *StorageError.
func (s *FileStore) Load(_ context.Context) (*History, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &History{}, nil
		}
		storageErr := &StorageError{Op: "read", Path: s.path, Err: err}
		if os.IsPermission(err) {
			storageErr.Hint = fileutil.ReadPermissionFix(s.path)
		}
		return nil, storageErr
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, &StorageError{
			Op:   "parse",
			Path: s.path,
			Err:  err,
			Hint: "Restore from " + s.path + ".bak if available",
		}
	}
	if err := h.validate(); err != nil {
		return nil, &StorageError{Op: "parse", Path: s.path, Err: err}
	}

	return &h, nil
}

// Save writes h over the history file, keeping the previous version
// as <path>.bak.
func (s *FileStore) Save(_ context.Context, h *History) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: fmt.Errorf("failed to marshal history: %w", err)}
	}

	if err := fileutil.Backup(s.path); err != nil {
		s.logger.Warn("failed to back up history", "path", s.path, "error", err)
	}

	if err := fileutil.AtomicWrite(s.path, data); err != nil {
		storageErr := &StorageError{Op: "write", Path: s.path, Err: err}
		if os.IsPermission(err) {
			storageErr.Hint = fileutil.WritePermissionFix(filepath.Dir(s.path))
		}
		return storageErr
	}

	return nil
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"
	"github.com/berfenger/pvledger2mqtt/internal/core/port"

	"github.com/spf13/afero"
)

// AferoSnapshotStore persists the ledger snapshot as a JSON file. Writes go
// to a temp file first and are renamed into place, so a crash mid-write
// never leaves a truncated snapshot behind.
type AferoSnapshotStore struct {
	fs   afero.Fs
	path string
}

func NewSnapshotStore(fs afero.Fs, path string) *AferoSnapshotStore {
	return &AferoSnapshotStore{
		fs:   fs,
		path: path,
	}
}

// Load reads the persisted snapshot. A missing file is not an error: it
// means first start, and the caller seeds a fresh ledger.
func (s *AferoSnapshotStore) Load() (*domain.LedgerSnapshot, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	var snapshot domain.LedgerSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot file: %w", err)
	}
	return &snapshot, nil
}

func (s *AferoSnapshotStore) Save(snapshot domain.LedgerSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// ensure interface compliance
var _ port.SnapshotStore = (*AferoSnapshotStore)(nil)

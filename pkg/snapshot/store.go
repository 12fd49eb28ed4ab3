// Package snapshot provides file-based storage for monthly entity
// snapshots. One JSON document per (month, entity kind); a missing
// month is reported as ErrNotFound so callers can tell "first month
// ever" apart from lost data.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cybertimeline/cybertimeline/pkg/entity"
	"github.com/cybertimeline/cybertimeline/pkg/jsonutil"
)

// ErrNotFound is returned when no snapshot exists for the requested
// month and kind. Callers should use errors.Is().
var ErrNotFound = errors.New("snapshot: not found")

// Store reads and writes snapshots under a base directory. Saves are
// atomic (temp file + rename) so a failed run never leaves a partial
// snapshot behind.
type Store struct {
	baseDir string
}

// NewStore creates the base directory if needed and returns a store.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// UserPath returns the snapshot file path for a month's users.
func (s *Store) UserPath(month entity.Month) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s-users.json", month))
}

// AssetPath returns the snapshot file path for a month's assets.
func (s *Store) AssetPath(month entity.Month) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s-assets.json", month))
}

// LoadUsers loads the user snapshot for month. Returns ErrNotFound if
// no snapshot was ever written for that month.
func (s *Store) LoadUsers(month entity.Month) (*entity.UserSnapshot, error) {
	var snap entity.UserSnapshot
	if err := s.load(s.UserPath(month), &snap); err != nil {
		return nil, err
	}
	if snap.Users == nil {
		snap.Users = make(map[string]*entity.User)
	}
	return &snap, nil
}

// LoadAssets loads the asset snapshot for month.
func (s *Store) LoadAssets(month entity.Month) (*entity.AssetSnapshot, error) {
	var snap entity.AssetSnapshot
	if err := s.load(s.AssetPath(month), &snap); err != nil {
		return nil, err
	}
	if snap.Assets == nil {
		snap.Assets = make(map[string]*entity.Asset)
	}
	return &snap, nil
}

// SaveUsers replaces the user snapshot for month.
func (s *Store) SaveUsers(snap *entity.UserSnapshot, month entity.Month) error {
	return s.save(s.UserPath(month), snap)
}

// SaveAssets replaces the asset snapshot for month.
func (s *Store) SaveAssets(snap *entity.AssetSnapshot, month entity.Month) error {
	return s.save(s.AssetPath(month), snap)
}

func (s *Store) load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := jsonutil.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (s *Store) save(path string, v any) error {
	data, err := jsonutil.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes any pipeline artifact (diff, insight bundle) with
// the same atomic-replace discipline snapshots get.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	data, err := jsonutil.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads a pipeline artifact, mapping a missing file to
// ErrNotFound.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := jsonutil.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

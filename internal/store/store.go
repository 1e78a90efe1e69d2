package store

import (
	"context"
	"os"
	"path/filepath"

	"treedo-cli/internal/model"
)

// DB is the persisted document: the whole task forest plus a format version.
// Undo/redo history is session state and is never persisted.
type DB struct {
	Version int          `json:"version"`
	Nodes   []model.Node `json:"nodes"`
}

// Store is a handle to one workspace directory (a `.treedo` dir holding
// index.sqlite).
type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for an existing .treedo dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".treedo")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the store dir for the current working directory:
// a discovered ancestor .treedo, or a fresh one in the cwd.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".treedo"), nil
}

// WorkspaceDir resolves a named workspace under the user config dir.
func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, "index.sqlite")
}

// Load reads the full forest from the workspace SQLite db. A missing or
// empty db yields an empty forest, never an error the caller must treat
// as fatal.
func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

// Save writes the full forest to the workspace SQLite db.
func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(context.Background(), db)
}

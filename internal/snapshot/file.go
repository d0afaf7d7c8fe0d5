// Package snapshot persists store snapshots as a JSON file in the data
// directory.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/dori/taskhive/internal/model"
	"github.com/dori/taskhive/internal/store"
)

// DefaultName is the snapshot's base name
const DefaultName = "taskhive-store"

const lockRetry = 50 * time.Millisecond

// File is a store.Persister backed by <dir>/<name>.json. Readers and writers
// take a file lock next to it so a second process never sees a torn write.
type File struct {
	path string
	lock *flock.Flock
}

var _ store.Persister = (*File)(nil)

// New returns a File for dir/name.json. An empty name uses DefaultName.
func New(dir, name string) *File {
	if name == "" {
		name = DefaultName
	}
	path := filepath.Join(dir, name+".json")
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the snapshot file path
func (f *File) Path() string {
	return f.path
}

// Load reads the snapshot. A missing file is store.ErrNoSnapshot.
func (f *File) Load(ctx context.Context) (store.Snapshot, error) {
	if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) {
		return store.Snapshot{}, store.ErrNoSnapshot
	}

	locked, err := f.lock.TryRLockContext(ctx, lockRetry)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to lock snapshot: %w", err)
	}
	if !locked {
		return store.Snapshot{}, fmt.Errorf("snapshot %s is locked", f.path)
	}
	defer f.lock.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return store.Snapshot{}, store.ErrNoSnapshot
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// Save writes the snapshot to a temp file and renames it into place
func (f *File) Save(ctx context.Context, snap store.Snapshot) error {
	if snap.Version == 0 {
		snap.Version = store.SnapshotVersion
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	locked, err := f.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("failed to lock snapshot: %w", err)
	}
	if !locked {
		return fmt.Errorf("snapshot %s is locked", f.path)
	}
	defer f.lock.Unlock()

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// fileSnapshot accepts both the current layout and the browser client's
// layout, which wraps the fields in "state" and stores the whole user.
type fileSnapshot struct {
	Version       int          `json:"version"`
	Authenticated bool         `json:"isAuthenticated"`
	CurrentUserID string       `json:"currentUserId"`
	CurrentUser   *model.User  `json:"currentUser"`
	DarkMode      bool         `json:"darkMode"`
	Tasks         []model.Task `json:"tasks"`

	State *fileSnapshot `json:"state"`
}

// Decode parses a snapshot document. Versionless documents are version 1.
func Decode(data []byte) (store.Snapshot, error) {
	var doc fileSnapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	src := &doc
	if doc.State != nil {
		src = doc.State
	}

	snap := store.Snapshot{
		Version:       src.Version,
		Authenticated: src.Authenticated,
		CurrentUserID: src.CurrentUserID,
		DarkMode:      src.DarkMode,
		Tasks:         src.Tasks,
	}
	if snap.CurrentUserID == "" && src.CurrentUser != nil {
		snap.CurrentUserID = src.CurrentUser.ID
	}
	if snap.Version == 0 {
		snap.Version = 1
	}
	if snap.Version > store.SnapshotVersion {
		return store.Snapshot{}, fmt.Errorf("%w: %d", store.ErrIncompatibleSnapshot, snap.Version)
	}
	for i := range snap.Tasks {
		if snap.Tasks[i].AssignedTo == nil {
			snap.Tasks[i].AssignedTo = []string{}
		}
	}
	return snap, nil
}

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/dori/taskhive/internal/model"
)

// SnapshotVersion is the shape written by this build. Versionless snapshots
// are read as version 1.
const SnapshotVersion = 1

var (
	// ErrNoSnapshot is returned by a Persister that has nothing saved yet
	ErrNoSnapshot = errors.New("no snapshot")
	// ErrIncompatibleSnapshot is returned for snapshots newer than this build
	ErrIncompatibleSnapshot = errors.New("incompatible snapshot version")
)

// Snapshot is the persisted subset of the store's state
type Snapshot struct {
	Version       int          `json:"version"`
	Authenticated bool         `json:"isAuthenticated"`
	CurrentUserID string       `json:"currentUserId,omitempty"`
	DarkMode      bool         `json:"darkMode"`
	Tasks         []model.Task `json:"tasks"`
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Tasks = cloneTasks(s.Tasks)
	return c
}

// Persister stores snapshots somewhere durable
type Persister interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// MemoryPersister keeps the last saved snapshot in memory
type MemoryPersister struct {
	mu    sync.Mutex
	snap  *Snapshot
	saves int
	err   error
}

// NewMemoryPersister returns an empty MemoryPersister
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (m *MemoryPersister) Load(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return m.snap.Clone(), nil
}

func (m *MemoryPersister) Save(ctx context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.err != nil {
		return m.err
	}
	c := snap.Clone()
	m.snap = &c
	return nil
}

// Saves returns how many times Save was called
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailWith makes every later Save return err. A nil err clears it.
func (m *MemoryPersister) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

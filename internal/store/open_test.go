package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dori/taskhive/internal/model"
	"github.com/dori/taskhive/internal/seed"
)

type brokenPersister struct {
	err error
}

func (b brokenPersister) Load(ctx context.Context) (Snapshot, error) {
	return Snapshot{}, b.err
}

func (b brokenPersister) Save(ctx context.Context, snap Snapshot) error {
	return b.err
}

func TestOpenWithoutSnapshotUsesSeed(t *testing.T) {
	s, err := Open(context.Background(), Options{Persister: NewMemoryPersister()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(s.Tasks()) != len(seed.Tasks()) {
		t.Errorf("got %d tasks, want seed", len(s.Tasks()))
	}
}

func TestOpenRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()

	first, err := Open(ctx, Options{Persister: p, GoogleDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first.DeleteTask("1")
	first.SetDarkMode(true)
	first.ToggleSidebar()
	if _, err := first.LoginWithGoogle(ctx); err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}

	second, err := Open(ctx, Options{Persister: p})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok := second.Task("1"); ok {
		t.Error("deleted task came back")
	}
	if !second.Preferences().DarkMode {
		t.Error("dark mode not restored")
	}
	if !second.Preferences().SidebarOpen {
		t.Error("sidebar flag should not be persisted")
	}
	if u, ok := second.CurrentUser(); !ok || u.ID != seed.DefaultUserID {
		t.Errorf("current user = %q, %v", u.ID, ok)
	}
}

func TestOpenFailsClosedOnCorruptSnapshot(t *testing.T) {
	s, err := Open(context.Background(), Options{Persister: brokenPersister{err: errors.New("unexpected end of JSON input")}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(s.Tasks()) != len(seed.Tasks()) || s.IsAuthenticated() {
		t.Error("corrupt snapshot did not fall back to seed data")
	}
}

func TestOpenIgnoresNewerSnapshot(t *testing.T) {
	p := NewMemoryPersister()
	_ = p.Save(context.Background(), Snapshot{Version: SnapshotVersion + 1, DarkMode: true, Tasks: []model.Task{{ID: "x"}}})

	s, err := Open(context.Background(), Options{Persister: p})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.Task("x"); ok || s.Preferences().DarkMode {
		t.Error("newer snapshot was applied")
	}
}

func TestOpenSignsOutUnknownUser(t *testing.T) {
	p := NewMemoryPersister()
	_ = p.Save(context.Background(), Snapshot{Version: 1, Authenticated: true, CurrentUserID: "42"})

	s, err := Open(context.Background(), Options{Persister: p})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("session bound to a user that does not exist")
	}
}

func TestOpenHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, Options{Persister: brokenPersister{err: context.Canceled}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSaveErrorsAreNotSurfaced(t *testing.T) {
	p := NewMemoryPersister()
	p.FailWith(errors.New("disk full"))
	s := New(Options{Persister: p})

	if !s.ToggleTask("1") {
		t.Error("mutation failed because the save failed")
	}
	if task, _ := s.Task("1"); !task.Completed {
		t.Error("in-memory state not updated")
	}
	if p.Saves() != 1 {
		t.Errorf("saves = %d, want 1", p.Saves())
	}
}

// Package store owns the task list, the user set, the session and the UI
// preferences. All mutation goes through Store methods; readers get copies.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dori/taskhive/internal/logger"
	"github.com/dori/taskhive/internal/model"
	"github.com/dori/taskhive/internal/query"
	"github.com/dori/taskhive/internal/seed"
)

// AnalyticsMode selects where Analytics() numbers come from
type AnalyticsMode string

const (
	// AnalyticsStatic serves the fixed seed snapshot
	AnalyticsStatic AnalyticsMode = "static"
	// AnalyticsLive recomputes from the current task list
	AnalyticsLive AnalyticsMode = "live"
)

const (
	DefaultLoginDelay  = time.Second
	DefaultGoogleDelay = 1500 * time.Millisecond
)

// Options configures a Store. Zero fields take defaults.
type Options struct {
	Users         []model.User
	Tasks         []model.Task
	Analytics     *model.Analytics
	AnalyticsMode AnalyticsMode
	DefaultUserID string

	// Zero delays mean DefaultLoginDelay and DefaultGoogleDelay
	LoginDelay  time.Duration
	GoogleDelay time.Duration

	Persister Persister
	Logger    *logger.Logger
	Clock     func() time.Time
	NewID     func() string
}

func (o *Options) setDefaults() {
	if o.Users == nil {
		o.Users = seed.Users()
	}
	if o.Tasks == nil {
		o.Tasks = seed.Tasks()
	}
	if o.Analytics == nil {
		a := seed.Analytics()
		o.Analytics = &a
	}
	if o.AnalyticsMode == "" {
		o.AnalyticsMode = AnalyticsStatic
	}
	if o.DefaultUserID == "" {
		o.DefaultUserID = seed.DefaultUserID
	}
	if o.LoginDelay == 0 {
		o.LoginDelay = DefaultLoginDelay
	}
	if o.GoogleDelay == 0 {
		o.GoogleDelay = DefaultGoogleDelay
	}
	if o.Persister == nil {
		o.Persister = NewMemoryPersister()
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
}

// ChangeKind names the mutation that produced a Change
type ChangeKind string

const (
	ChangeTaskAdded   ChangeKind = "task_added"
	ChangeTaskUpdated ChangeKind = "task_updated"
	ChangeTaskDeleted ChangeKind = "task_deleted"
	ChangeSelection   ChangeKind = "selection"
	ChangeSession     ChangeKind = "session"
	ChangePreferences ChangeKind = "preferences"
)

// Change is delivered to subscribers after a mutation has been applied
type Change struct {
	Kind   ChangeKind
	TaskID string
}

type subscriber struct {
	id int
	fn func(Change)
}

// Store is the single owner of application state
type Store struct {
	mu        sync.RWMutex
	state     State
	users     []model.User
	analytics model.Analytics
	opts      Options
	log       *logger.Logger

	authSeq atomic.Uint64

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
}

// New builds a store from opts without reading the persister
func New(opts Options) *Store {
	opts.setDefaults()
	s := &Store{
		users:     slices.Clone(opts.Users),
		analytics: opts.Analytics.Clone(),
		opts:      opts,
		log:       opts.Logger.WithComponent("store"),
	}
	s.state.Tasks = cloneTasks(opts.Tasks)
	s.state.Prefs.SidebarOpen = true
	return s
}

// Open builds a store and seeds it from the persister's snapshot. A missing
// snapshot keeps the seed data; an unreadable or incompatible one is logged
// and ignored.
func Open(ctx context.Context, opts Options) (*Store, error) {
	s := New(opts)

	snap, err := s.opts.Persister.Load(ctx)
	if err == nil && snap.Version > SnapshotVersion {
		err = fmt.Errorf("%w: %d", ErrIncompatibleSnapshot, snap.Version)
	}
	switch {
	case err == nil:
		s.restore(snap)
	case errors.Is(err, ErrNoSnapshot):
		s.log.Infow("no snapshot, starting from seed data", "tasks", len(s.state.Tasks))
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		s.log.Warnw("discarding unreadable snapshot, starting from seed data", "error", err)
	}
	return s, nil
}

func (s *Store) restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Restore(snap)
	if s.state.Session.Authenticated && s.userIndex(s.state.Session.CurrentUserID) < 0 {
		s.log.Warnw("snapshot user no longer exists, signing out", "user_id", s.state.Session.CurrentUserID)
		s.state.Session = model.Session{}
	}
	s.log.Infow("restored snapshot", "tasks", len(s.state.Tasks), "authenticated", s.state.Session.Authenticated)
}

// mutate applies fn under the write lock, persists, then notifies
// subscribers. fn reports whether anything changed.
func (s *Store) mutate(change Change, fn func(st *State, now time.Time) bool) bool {
	s.mu.Lock()
	if !fn(&s.state, s.opts.Clock()) {
		s.mu.Unlock()
		return false
	}
	snap := s.state.Snapshot()
	if err := s.opts.Persister.Save(context.Background(), snap); err != nil {
		s.log.Warnw("failed to persist snapshot", "change", change.Kind, "error", err)
	}
	s.mu.Unlock()

	s.log.Debugw("state changed", "change", change.Kind, "task_id", change.TaskID)
	s.publish(change)
	return true
}

// Subscribe registers fn for every applied change. Handlers run on the
// mutating goroutine after the store lock is released.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	targets := make([]func(Change), len(s.subs))
	for i, sub := range s.subs {
		targets[i] = sub.fn
	}
	s.subMu.Unlock()

	for _, fn := range targets {
		fn(c)
	}
}

// AddTask validates in and appends a new task with a fresh id
func (s *Store) AddTask(in model.TaskInput) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}
	var added model.Task
	id := s.opts.NewID()
	s.mutate(Change{Kind: ChangeTaskAdded, TaskID: id}, func(st *State, now time.Time) bool {
		now = now.UTC().Round(0)
		added = model.Task{
			ID:          id,
			Title:       in.Title,
			Description: in.Description,
			Completed:   in.Completed,
			Priority:    in.Priority,
			DueDate:     in.DueDate,
			AssignedTo:  slices.Clone(in.AssignedTo),
			Subtasks:    slices.Clone(in.Subtasks),
			Comments:    slices.Clone(in.Comments),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if added.AssignedTo == nil {
			added.AssignedTo = []string{}
		}
		fillSubtaskIDs(&added)
		st.Add(added.Clone())
		return true
	})
	s.log.Infow("task added", "task_id", id, "priority", added.Priority)
	return added, nil
}

// UpdateTask merges patch into the task. An unknown id is a no-op and
// reports false; an invalid patch is rejected before anything changes.
func (s *Store) UpdateTask(id string, patch model.TaskPatch) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}
	return s.mutate(Change{Kind: ChangeTaskUpdated, TaskID: id}, func(st *State, now time.Time) bool {
		return st.Update(id, patch, now)
	}), nil
}

// DeleteTask removes the task and clears the selection if it pointed at it
func (s *Store) DeleteTask(id string) bool {
	ok := s.mutate(Change{Kind: ChangeTaskDeleted, TaskID: id}, func(st *State, _ time.Time) bool {
		return st.Delete(id)
	})
	if ok {
		s.log.Infow("task deleted", "task_id", id)
	}
	return ok
}

// DeleteTasks removes every listed task and returns how many existed
func (s *Store) DeleteTasks(ids ...string) int {
	n := 0
	for _, id := range ids {
		if s.DeleteTask(id) {
			n++
		}
	}
	return n
}

// ToggleTask flips the completed flag
func (s *Store) ToggleTask(id string) bool {
	return s.mutate(Change{Kind: ChangeTaskUpdated, TaskID: id}, func(st *State, now time.Time) bool {
		return st.Toggle(id, now)
	})
}

// ToggleTasks flips every listed task and returns how many existed
func (s *Store) ToggleTasks(ids ...string) int {
	n := 0
	for _, id := range ids {
		if s.ToggleTask(id) {
			n++
		}
	}
	return n
}

// SelectTask points the detail view at id, or at nothing if id is unknown
func (s *Store) SelectTask(id string) {
	s.mu.Lock()
	changed := s.state.Select(id)
	s.mu.Unlock()
	if changed {
		s.publish(Change{Kind: ChangeSelection, TaskID: id})
	}
}

// AddComment appends a comment by userID to the task
func (s *Store) AddComment(taskID, content, userID string) (model.Comment, bool) {
	c := model.Comment{
		ID:      s.opts.NewID(),
		UserID:  userID,
		Content: content,
	}
	ok := s.mutate(Change{Kind: ChangeTaskUpdated, TaskID: taskID}, func(st *State, now time.Time) bool {
		c.CreatedAt = now.UTC().Round(0)
		return st.AddComment(taskID, c, now)
	})
	return c, ok
}

// ToggleSubtask flips one subtask of a task
func (s *Store) ToggleSubtask(taskID, subtaskID string) bool {
	return s.mutate(Change{Kind: ChangeTaskUpdated, TaskID: taskID}, func(st *State, now time.Time) bool {
		return st.ToggleSubtask(taskID, subtaskID, now)
	})
}

// AddSubtask appends a new open subtask to a task
func (s *Store) AddSubtask(taskID, title string) (model.Subtask, bool) {
	var sub model.Subtask
	ok := s.mutate(Change{Kind: ChangeTaskUpdated, TaskID: taskID}, func(st *State, now time.Time) bool {
		var added bool
		sub, added = st.AddSubtask(taskID, title, now)
		return added
	})
	return sub, ok
}

// ToggleSidebar flips the sidebar flag. It is not persisted.
func (s *Store) ToggleSidebar() {
	s.mu.Lock()
	s.state.Prefs.SidebarOpen = !s.state.Prefs.SidebarOpen
	s.mu.Unlock()
	s.publish(Change{Kind: ChangePreferences})
}

// ToggleDarkMode flips the persisted dark mode flag
func (s *Store) ToggleDarkMode() {
	s.mutate(Change{Kind: ChangePreferences}, func(st *State, _ time.Time) bool {
		st.Prefs.DarkMode = !st.Prefs.DarkMode
		return true
	})
}

// SetDarkMode sets the dark mode flag
func (s *Store) SetDarkMode(on bool) {
	s.mutate(Change{Kind: ChangePreferences}, func(st *State, _ time.Time) bool {
		if st.Prefs.DarkMode == on {
			return false
		}
		st.Prefs.DarkMode = on
		return true
	})
}

// Tasks returns a copy of every task in insertion order
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.state.Tasks)
}

// Task returns a copy of one task
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.state.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.state.Tasks[i].Clone(), true
}

// Selected returns the current value of the selected task
func (s *Store) Selected() (model.Task, bool) {
	s.mu.RLock()
	id := s.state.Selected
	s.mu.RUnlock()
	if id == "" {
		return model.Task{}, false
	}
	return s.Task(id)
}

// Users returns the reference user set
func (s *Store) Users() []model.User {
	return slices.Clone(s.users)
}

// User looks up a user by id
func (s *Store) User(id string) (model.User, bool) {
	i := s.userIndex(id)
	if i < 0 {
		return model.User{}, false
	}
	return s.users[i], true
}

func (s *Store) userIndex(id string) int {
	return slices.IndexFunc(s.users, func(u model.User) bool { return u.ID == id })
}

// Assignees resolves a task's assignee ids, skipping unknown ones
func (s *Store) Assignees(t model.Task) []model.User {
	var out []model.User
	for _, id := range t.AssignedTo {
		if u, ok := s.User(id); ok {
			out = append(out, u)
		}
	}
	return out
}

// Session returns the authentication state
func (s *Store) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Session
}

// IsAuthenticated reports whether a user is signed in
func (s *Store) IsAuthenticated() bool {
	return s.Session().Authenticated
}

// CurrentUser resolves the session's user against the user set
func (s *Store) CurrentUser() (model.User, bool) {
	sess := s.Session()
	if !sess.Authenticated {
		return model.User{}, false
	}
	return s.User(sess.CurrentUserID)
}

// Preferences returns the UI flags
func (s *Store) Preferences() model.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Prefs
}

// Analytics returns the dashboard aggregate for the configured mode
func (s *Store) Analytics() model.Analytics {
	if s.opts.AnalyticsMode == AnalyticsLive {
		return query.ComputeAnalytics(s.Tasks(), s.opts.Clock())
	}
	return s.analytics.Clone()
}

// Now returns the store's clock reading
func (s *Store) Now() time.Time {
	return s.opts.Clock()
}

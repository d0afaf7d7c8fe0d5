package store

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dori/taskhive/internal/model"
)

// State is the mutable part of the store. Its methods are the pure
// transitions: they take the current time as an argument and never do I/O.
type State struct {
	Tasks    []model.Task
	Selected string // id of the selected task, empty for none
	Session  model.Session
	Prefs    model.Preferences
}

// Snapshot extracts the persisted subset
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Version:       SnapshotVersion,
		Authenticated: s.Session.Authenticated,
		CurrentUserID: s.Session.CurrentUserID,
		DarkMode:      s.Prefs.DarkMode,
		Tasks:         cloneTasks(s.Tasks),
	}
}

// Restore replaces the persisted subset with snap. Selection and the sidebar
// flag are not persisted and reset.
func (s *State) Restore(snap Snapshot) {
	s.Tasks = cloneTasks(snap.Tasks)
	s.Selected = ""
	s.Session = model.Session{
		Authenticated: snap.Authenticated,
		CurrentUserID: snap.CurrentUserID,
	}
	if !snap.Authenticated {
		s.Session.CurrentUserID = ""
	}
	s.Prefs.DarkMode = snap.DarkMode
}

func (s *State) index(id string) int {
	return slices.IndexFunc(s.Tasks, func(t model.Task) bool { return t.ID == id })
}

// Add appends t, giving subtasks with an empty or repeated id a fresh one
func (s *State) Add(t model.Task) {
	fillSubtaskIDs(&t)
	s.Tasks = append(s.Tasks, t)
}

// Update merges patch into the task with the given id
func (s *State) Update(id string, patch model.TaskPatch, now time.Time) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	t := &s.Tasks[i]
	patch.Apply(t)
	if patch.Subtasks != nil {
		fillSubtaskIDs(t)
	}
	t.UpdatedAt = stamp(t.UpdatedAt, now)
	return true
}

// Delete removes the task and clears the selection if it pointed at it
func (s *State) Delete(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.Tasks = slices.Delete(s.Tasks, i, i+1)
	if s.Selected == id {
		s.Selected = ""
	}
	return true
}

// Toggle flips the completed flag through Update
func (s *State) Toggle(id string, now time.Time) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	completed := !s.Tasks[i].Completed
	return s.Update(id, model.TaskPatch{Completed: &completed}, now)
}

// Select points the selection at id, or at nothing when id is unknown
func (s *State) Select(id string) bool {
	next := ""
	if s.index(id) >= 0 {
		next = id
	}
	changed := next != s.Selected
	s.Selected = next
	return changed
}

// AddComment appends c to the task's comments
func (s *State) AddComment(taskID string, c model.Comment, now time.Time) bool {
	i := s.index(taskID)
	if i < 0 {
		return false
	}
	comments := append(slices.Clone(s.Tasks[i].Comments), c)
	return s.Update(taskID, model.TaskPatch{Comments: &comments}, now)
}

// ToggleSubtask flips one subtask. Both ids must exist.
func (s *State) ToggleSubtask(taskID, subtaskID string, now time.Time) bool {
	i := s.index(taskID)
	if i < 0 {
		return false
	}
	j := s.Tasks[i].SubtaskIndex(subtaskID)
	if j < 0 {
		return false
	}
	subtasks := slices.Clone(s.Tasks[i].Subtasks)
	subtasks[j].Completed = !subtasks[j].Completed
	return s.Update(taskID, model.TaskPatch{Subtasks: &subtasks}, now)
}

// AddSubtask appends an open subtask with the next free id
func (s *State) AddSubtask(taskID, title string, now time.Time) (model.Subtask, bool) {
	i := s.index(taskID)
	if i < 0 {
		return model.Subtask{}, false
	}
	sub := model.Subtask{ID: nextSubtaskID(s.Tasks[i]), Title: title}
	subtasks := append(slices.Clone(s.Tasks[i].Subtasks), sub)
	return sub, s.Update(taskID, model.TaskPatch{Subtasks: &subtasks}, now)
}

// fillSubtaskIDs replaces empty and repeated subtask ids so every id is
// unique within the task
func fillSubtaskIDs(t *model.Task) {
	seen := make(map[string]bool, len(t.Subtasks))
	n := 0
	for i := range t.Subtasks {
		if id := t.Subtasks[i].ID; id != "" && !seen[id] {
			seen[id] = true
			continue
		}
		for {
			n++
			id := fmt.Sprintf("%s-%d", t.ID, n)
			if t.SubtaskIndex(id) < 0 {
				t.Subtasks[i].ID = id
				seen[id] = true
				break
			}
		}
	}
}

// nextSubtaskID returns "<taskID>-<n>" with n one past the highest suffix in use
func nextSubtaskID(t model.Task) string {
	prefix := t.ID + "-"
	n := len(t.Subtasks)
	for _, sub := range t.Subtasks {
		if suffix, ok := strings.CutPrefix(sub.ID, prefix); ok {
			if v, err := strconv.Atoi(suffix); err == nil && v > n {
				n = v
			}
		}
	}
	for {
		n++
		id := fmt.Sprintf("%s%d", prefix, n)
		if t.SubtaskIndex(id) < 0 {
			return id
		}
	}
}

// stamp returns now, or one nanosecond past prev when the clock has not moved
// beyond it. updatedAt never goes backwards or repeats.
func stamp(prev, now time.Time) time.Time {
	now = now.UTC().Round(0)
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func cloneTasks(in []model.Task) []model.Task {
	if in == nil {
		return nil
	}
	out := make([]model.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

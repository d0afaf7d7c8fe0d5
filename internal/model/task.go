package model

import (
	"slices"
	"time"
)

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from most to least important
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Weight returns a numeric weight for sorting by priority
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return p.Weight() > 0
}

// ParsePriority converts user input into a Priority
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "low", "l":
		return PriorityLow, true
	case "medium", "med", "m":
		return PriorityMedium, true
	case "high", "hi", "h":
		return PriorityHigh, true
	}
	return "", false
}

// Subtask is a checklist item owned by a task
type Subtask struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Comment is a note left on a task. Replies share the same shape.
type Comment struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"user_id"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	Replies   []Comment `json:"replies,omitempty" yaml:"replies,omitempty"`
}

// Task represents a todo item
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate"` // YYYY-MM-DD
	AssignedTo  []string  `json:"assignedTo"`
	Subtasks    []Subtask `json:"subtasks"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy so callers can't reach into store-owned slices
func (t Task) Clone() Task {
	c := t
	c.AssignedTo = slices.Clone(t.AssignedTo)
	c.Subtasks = slices.Clone(t.Subtasks)
	c.Comments = cloneComments(t.Comments)
	return c
}

func cloneComments(in []Comment) []Comment {
	if in == nil {
		return nil
	}
	out := make([]Comment, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Replies = cloneComments(c.Replies)
	}
	return out
}

// Due returns the due date as midnight in loc
func (t *Task) Due(loc *time.Location) (time.Time, bool) {
	return ParseDate(t.DueDate, loc)
}

// IsOverdue returns true if the due date is strictly before now and the task is open
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due(now.Location())
	if !ok {
		return false
	}
	return due.Before(now)
}

// IsDueOn returns true if the task is due on the calendar day of day
func (t *Task) IsDueOn(day time.Time) bool {
	d, ok := NormalizeDate(t.DueDate)
	return ok && d == FormatDate(day)
}

// IsAssignedTo reports whether userID is one of the assignees
func (t *Task) IsAssignedTo(userID string) bool {
	return slices.Contains(t.AssignedTo, userID)
}

// SubtaskIndex returns the index of the subtask with the given id, or -1
func (t *Task) SubtaskIndex(id string) int {
	return slices.IndexFunc(t.Subtasks, func(s Subtask) bool { return s.ID == id })
}

// Status is the export label for the task's completion state
func (t *Task) Status() string {
	if t.Completed {
		return "completed"
	}
	return "pending"
}

// TaskInput holds the caller supplied fields of a new task
type TaskInput struct {
	Title       string `validate:"required"`
	Description string
	Completed   bool
	Priority    Priority  `validate:"required,oneof=low medium high"`
	DueDate     string    `validate:"omitempty,datetime=2006-01-02"`
	AssignedTo  []string  `validate:"dive,required"`
	Subtasks    []Subtask `validate:"dive"`
	Comments    []Comment
}

// TaskPatch is a partial update. Nil fields are left untouched; slices replace
// the existing value wholesale.
type TaskPatch struct {
	Title       *string `validate:"omitempty,min=1"`
	Description *string
	Completed   *bool
	Priority    *Priority `validate:"omitempty,oneof=low medium high"`
	DueDate     *string   `validate:"omitempty,datetime=2006-01-02"`
	AssignedTo  *[]string
	Subtasks    *[]Subtask
	Comments    *[]Comment
}

// Apply merges the patch into t. UpdatedAt is the caller's job.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.AssignedTo != nil {
		t.AssignedTo = slices.Clone(*p.AssignedTo)
	}
	if p.Subtasks != nil {
		t.Subtasks = slices.Clone(*p.Subtasks)
	}
	if p.Comments != nil {
		t.Comments = cloneComments(*p.Comments)
	}
}

// IsEmpty returns true if the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

// Package query holds the derived views over a task list. Every function is
// pure: it reads its arguments and returns fresh slices.
package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dori/taskhive/internal/model"
)

// Filter selects tasks by status or priority. Exactly one is active.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
	FilterHigh      Filter = "high"
	FilterMedium    Filter = "medium"
	FilterLow       Filter = "low"
)

// Filters lists every filter in display order
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterCompleted, FilterOverdue, FilterHigh, FilterMedium, FilterLow}
}

// ParseFilter converts user input into a Filter. Empty input means all.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(strings.ToLower(s))
	if !slices.Contains(Filters(), f) {
		return "", fmt.Errorf("unknown filter %q", s)
	}
	return f, nil
}

// Match reports whether t passes the filter at now
func (f Filter) Match(t model.Task, now time.Time) bool {
	switch f {
	case FilterAll:
		return true
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterOverdue:
		return t.IsOverdue(now)
	case FilterHigh, FilterMedium, FilterLow:
		return t.Priority == model.Priority(f)
	}
	return false
}

// FilterTasks keeps the tasks matching f, in order
func FilterTasks(tasks []model.Task, f Filter, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// Search keeps tasks whose title or description contains term, ignoring case.
// An empty term keeps everything.
func Search(tasks []model.Task, term string) []model.Task {
	if term == "" {
		return slices.Clone(tasks)
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(fold.String(t.Title), needle) || strings.Contains(fold.String(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}

// SortKey names a sortable task field
type SortKey string

const (
	SortDueDate   SortKey = "dueDate"
	SortPriority  SortKey = "priority"
	SortCreatedAt SortKey = "createdAt"
	SortTitle     SortKey = "title"
)

// SortKeys lists the accepted sort keys
func SortKeys() []SortKey {
	return []SortKey{SortDueDate, SortPriority, SortCreatedAt, SortTitle}
}

// ParseSortKey accepts the camelCase keys and a few short forms
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(s) {
	case "", "duedate", "due":
		return SortDueDate, nil
	case "priority", "prio":
		return SortPriority, nil
	case "createdat", "created":
		return SortCreatedAt, nil
	case "title", "name":
		return SortTitle, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Order is the sort direction
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder converts user input into an Order. Empty input means ascending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Sort returns a stably sorted copy. Ties keep their input order in both
// directions. Tasks without a due date go last when sorting by due date.
func Sort(tasks []model.Task, key SortKey, order Order) []model.Task {
	out := slices.Clone(tasks)
	cmp := comparator(key)
	if cmp == nil {
		return out
	}
	if order == Desc {
		asc := cmp
		cmp = func(a, b model.Task) int { return asc(b, a) }
	}
	if key == SortDueDate {
		inner := cmp
		cmp = func(a, b model.Task) int {
			_, aok := model.NormalizeDate(a.DueDate)
			_, bok := model.NormalizeDate(b.DueDate)
			switch {
			case aok && !bok:
				return -1
			case !aok && bok:
				return 1
			case !aok && !bok:
				return 0
			}
			return inner(a, b)
		}
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(key SortKey) func(a, b model.Task) int {
	switch key {
	case SortDueDate:
		return func(a, b model.Task) int {
			ad, _ := model.NormalizeDate(a.DueDate)
			bd, _ := model.NormalizeDate(b.DueDate)
			return strings.Compare(ad, bd)
		}
	case SortPriority:
		return func(a, b model.Task) int {
			return a.Priority.Weight() - b.Priority.Weight()
		}
	case SortCreatedAt:
		return func(a, b model.Task) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case SortTitle:
		col := collate.New(language.English, collate.IgnoreCase)
		return func(a, b model.Task) int {
			return col.CompareString(a.Title, b.Title)
		}
	}
	return nil
}

// Options drive the task list pipeline
type Options struct {
	Search string
	Filter Filter
	Sort   SortKey
	Order  Order
}

// List runs search, then filter, then sort
func List(tasks []model.Task, opts Options, now time.Time) []model.Task {
	f := opts.Filter
	if f == "" {
		f = FilterAll
	}
	key := opts.Sort
	if key == "" {
		key = SortDueDate
	}
	return Sort(FilterTasks(Search(tasks, opts.Search), f, now), key, opts.Order)
}

// FilterCounts returns how many tasks each filter would show
func FilterCounts(tasks []model.Task, now time.Time) map[Filter]int {
	counts := make(map[Filter]int, len(Filters()))
	for _, f := range Filters() {
		counts[f] = 0
	}
	for _, t := range tasks {
		for _, f := range Filters() {
			if f.Match(t, now) {
				counts[f]++
			}
		}
	}
	return counts
}

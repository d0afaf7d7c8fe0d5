package query

import (
	"slices"
	"testing"
	"time"

	"github.com/dori/taskhive/internal/model"
	"github.com/dori/taskhive/internal/seed"
)

var testNow = time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sampleTasks() []model.Task {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return []model.Task{
		{ID: "a", Title: "beta report", Description: "Quarterly numbers", Priority: model.PriorityHigh, DueDate: "2024-01-20", CreatedAt: created.Add(2 * time.Hour)},
		{ID: "b", Title: "Alpha review", Description: "", Priority: model.PriorityLow, DueDate: "2024-01-10", Completed: true, CreatedAt: created},
		{ID: "c", Title: "Émile sync", Description: "Talk about the REPORT", Priority: model.PriorityMedium, DueDate: "2024-01-12", CreatedAt: created.Add(time.Hour)},
		{ID: "d", Title: "alpha deploy", Priority: model.PriorityHigh, DueDate: "2024-01-20T15:00:00Z", CreatedAt: created.Add(3 * time.Hour)},
		{ID: "e", Title: "Gamma", Priority: model.PriorityLow, CreatedAt: created.Add(4 * time.Hour)},
	}
}

func TestParseFilter(t *testing.T) {
	for _, f := range Filters() {
		got, err := ParseFilter(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFilter(%q) = %q, %v", f, got, err)
		}
	}
	if got, _ := ParseFilter(""); got != FilterAll {
		t.Errorf("empty filter = %q, want all", got)
	}
	if _, err := ParseFilter("urgent"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestFilterTasks(t *testing.T) {
	tasks := sampleTasks()
	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"a", "b", "c", "d", "e"}},
		{FilterPending, []string{"a", "c", "d", "e"}},
		{FilterCompleted, []string{"b"}},
		{FilterOverdue, []string{"c"}},
		{FilterHigh, []string{"a", "d"}},
		{FilterMedium, []string{"c"}},
		{FilterLow, []string{"b", "e"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := ids(FilterTasks(tasks, tt.filter, testNow))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverdueIsStrictlyBeforeNow(t *testing.T) {
	task := model.Task{ID: "x", DueDate: "2024-01-16"}
	midnight := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	if FilterOverdue.Match(task, midnight) {
		t.Error("task due at exactly now should not be overdue")
	}
	if !FilterOverdue.Match(task, midnight.Add(time.Second)) {
		t.Error("task due before now should be overdue")
	}
	task.Completed = true
	if FilterOverdue.Match(task, midnight.Add(time.Second)) {
		t.Error("completed task should never be overdue")
	}
}

func TestSearch(t *testing.T) {
	tasks := sampleTasks()

	if got := ids(Search(tasks, "REPORT")); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("title or description match = %v, want [a c]", got)
	}
	if got := ids(Search(tasks, "émile")); !slices.Equal(got, []string{"c"}) {
		t.Errorf("unicode fold = %v, want [c]", got)
	}
	if got := Search(tasks, "nothing here"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", ids(got))
	}
}

func TestEmptySearchIsIdentity(t *testing.T) {
	tasks := sampleTasks()
	for _, f := range Filters() {
		a := ids(FilterTasks(Search(tasks, ""), f, testNow))
		b := ids(FilterTasks(tasks, f, testNow))
		if !slices.Equal(a, b) {
			t.Errorf("filter %s: search(\"\") changed result: %v vs %v", f, a, b)
		}
	}
}

func TestCompletedAndPendingPartition(t *testing.T) {
	for _, tasks := range [][]model.Task{nil, sampleTasks(), seed.Tasks()} {
		done := FilterTasks(tasks, FilterCompleted, testNow)
		open := FilterTasks(tasks, FilterPending, testNow)
		if len(done)+len(open) != len(tasks) {
			t.Fatalf("completed %d + pending %d != %d", len(done), len(open), len(tasks))
		}
		for _, d := range done {
			if slices.Contains(ids(open), d.ID) {
				t.Errorf("task %s in both partitions", d.ID)
			}
		}
	}
}

func TestSort(t *testing.T) {
	tasks := sampleTasks()
	tests := []struct {
		name  string
		key   SortKey
		order Order
		want  []string
	}{
		{"due asc keeps ties and puts undated last", SortDueDate, Asc, []string{"b", "c", "a", "d", "e"}},
		{"due desc keeps ties and puts undated last", SortDueDate, Desc, []string{"a", "d", "c", "b", "e"}},
		{"priority asc", SortPriority, Asc, []string{"b", "e", "c", "a", "d"}},
		{"priority desc is stable", SortPriority, Desc, []string{"a", "d", "c", "b", "e"}},
		{"created asc", SortCreatedAt, Asc, []string{"b", "c", "a", "d", "e"}},
		{"created desc", SortCreatedAt, Desc, []string{"e", "d", "a", "c", "b"}},
		{"title collates case and accents", SortTitle, Asc, []string{"d", "b", "a", "c", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Sort(tasks, tt.key, tt.order))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := ids(tasks)
	Sort(tasks, SortTitle, Desc)
	if !slices.Equal(ids(tasks), before) {
		t.Errorf("input reordered: %v", ids(tasks))
	}
}

func TestParseSortKeyAndOrder(t *testing.T) {
	if k, err := ParseSortKey("createdAt"); err != nil || k != SortCreatedAt {
		t.Errorf("ParseSortKey(createdAt) = %q, %v", k, err)
	}
	if k, _ := ParseSortKey(""); k != SortDueDate {
		t.Errorf("default sort key = %q", k)
	}
	if _, err := ParseSortKey("color"); err == nil {
		t.Error("expected error for unknown key")
	}
	if o, _ := ParseOrder("DESC"); o != Desc {
		t.Errorf("ParseOrder(DESC) = %q", o)
	}
	if _, err := ParseOrder("sideways"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestList(t *testing.T) {
	got := List(sampleTasks(), Options{Search: "alpha", Filter: FilterPending, Sort: SortTitle}, testNow)
	if !slices.Equal(ids(got), []string{"d"}) {
		t.Errorf("got %v, want [d]", ids(got))
	}

	got = List(sampleTasks(), Options{}, testNow)
	if !slices.Equal(ids(got), []string{"b", "c", "a", "d", "e"}) {
		t.Errorf("defaults: got %v", ids(got))
	}
}

func TestFilterCounts(t *testing.T) {
	counts := FilterCounts(sampleTasks(), testNow)
	want := map[Filter]int{
		FilterAll: 5, FilterPending: 4, FilterCompleted: 1, FilterOverdue: 1,
		FilterHigh: 2, FilterMedium: 1, FilterLow: 2,
	}
	for f, n := range want {
		if counts[f] != n {
			t.Errorf("%s = %d, want %d", f, counts[f], n)
		}
	}
}

package query

import (
	"testing"
	"time"

	"github.com/dori/taskhive/internal/model"
)

func TestMonthGridWednesdayStart(t *testing.T) {
	// April 2026 starts on a Wednesday and has 30 days
	g := MonthGrid(2026, time.April, nil)
	if len(g.Cells) != GridCells {
		t.Fatalf("got %d cells, want %d", len(g.Cells), GridCells)
	}

	var leading, current, trailing int
	for i, c := range g.Cells {
		switch {
		case c.InMonth:
			current++
		case i < 7:
			leading++
		default:
			trailing++
		}
	}
	if leading != 3 || current != 30 || trailing != 9 {
		t.Errorf("leading/current/trailing = %d/%d/%d, want 3/30/9", leading, current, trailing)
	}

	if got := model.FormatDate(g.Cells[0].Date); got != "2026-03-29" {
		t.Errorf("first cell = %s, want 2026-03-29", got)
	}
	if got := model.FormatDate(g.Cells[41].Date); got != "2026-05-09" {
		t.Errorf("last cell = %s, want 2026-05-09", got)
	}
	if g.Cells[0].Date.Weekday() != time.Sunday {
		t.Errorf("grid starts on %s", g.Cells[0].Date.Weekday())
	}
	if len(g.Weeks()) != 6 {
		t.Errorf("got %d weeks", len(g.Weeks()))
	}
}

func TestMonthGridSundayStart(t *testing.T) {
	// February 2026 starts on a Sunday: no leading days
	g := MonthGrid(2026, time.February, nil)
	if !g.Cells[0].InMonth || g.Cells[0].Date.Day() != 1 {
		t.Errorf("first cell = %v, want Feb 1", g.Cells[0].Date)
	}
}

func TestMonthGridBucketsTasks(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", DueDate: "2026-04-15"},
		{ID: "b", DueDate: "2026-04-15T23:30:00"},
		{ID: "c", DueDate: "2026-05-02"},
		{ID: "d", DueDate: "not a date"},
	}
	g := MonthGrid(2026, time.April, tasks)

	for _, c := range g.Cells {
		switch model.FormatDate(c.Date) {
		case "2026-04-15":
			if len(c.Tasks) != 2 {
				t.Errorf("Apr 15 has %d tasks, want 2", len(c.Tasks))
			}
		case "2026-05-02":
			if len(c.Tasks) != 1 || c.InMonth {
				t.Errorf("May 2 = %+v, want one trailing task", c)
			}
		default:
			if len(c.Tasks) != 0 {
				t.Errorf("%s has unexpected tasks", model.FormatDate(c.Date))
			}
		}
	}
}

func TestTasksByDaySkipsUndated(t *testing.T) {
	byDay := TasksByDay([]model.Task{{ID: "a"}, {ID: "b", DueDate: "2024-01-20"}})
	if len(byDay) != 1 || len(byDay["2024-01-20"]) != 1 {
		t.Errorf("got %v", byDay)
	}
}

func TestSummarizeMonth(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", DueDate: "2024-01-05", Completed: true},
		{ID: "b", DueDate: "2024-01-10"},
		{ID: "c", DueDate: "2024-02-01"},
	}
	s := SummarizeMonth(2024, time.January, tasks, testNow)
	if s != (MonthSummary{Due: 2, Completed: 1, Overdue: 1}) {
		t.Errorf("got %+v", s)
	}
}

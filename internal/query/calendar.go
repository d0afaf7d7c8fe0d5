package query

import (
	"time"

	"github.com/dori/taskhive/internal/model"
)

// GridCells is the size of a month grid: six weeks of seven days
const GridCells = 42

// Cell is one day of a month grid
type Cell struct {
	Date    time.Time
	InMonth bool
	Tasks   []model.Task
}

// Grid is a six week calendar page starting on a Sunday
type Grid struct {
	Year  int
	Month time.Month
	Cells []Cell
}

// Weeks splits the grid into rows of seven
func (g Grid) Weeks() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(g.Cells); i += 7 {
		rows = append(rows, g.Cells[i:i+7])
	}
	return rows
}

// MonthGrid lays out month as 42 cells: the tail of the previous month up to
// the first weekday, the month itself, then the head of the next month.
// Each cell carries the tasks due that day.
func MonthGrid(year int, month time.Month, tasks []model.Task) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	byDay := TasksByDay(tasks)

	g := Grid{Year: first.Year(), Month: first.Month(), Cells: make([]Cell, GridCells)}
	for i := range g.Cells {
		d := start.AddDate(0, 0, i)
		g.Cells[i] = Cell{
			Date:    d,
			InMonth: d.Month() == first.Month(),
			Tasks:   byDay[model.FormatDate(d)],
		}
	}
	return g
}

// TasksByDay buckets tasks by their date-only due date. Tasks without a
// parseable due date are left out.
func TasksByDay(tasks []model.Task) map[string][]model.Task {
	out := make(map[string][]model.Task)
	for _, t := range tasks {
		d, ok := model.NormalizeDate(t.DueDate)
		if !ok {
			continue
		}
		out[d] = append(out[d], t)
	}
	return out
}

// MonthSummary counts the tasks due in a month
type MonthSummary struct {
	Due       int
	Completed int
	Overdue   int
}

// SummarizeMonth counts tasks due in year/month and, over all tasks, the
// completed and overdue totals shown next to the calendar
func SummarizeMonth(year int, month time.Month, tasks []model.Task, now time.Time) MonthSummary {
	var s MonthSummary
	for _, t := range tasks {
		if d, ok := t.Due(time.UTC); ok && d.Year() == year && d.Month() == month {
			s.Due++
		}
		if t.Completed {
			s.Completed++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
	}
	return s
}

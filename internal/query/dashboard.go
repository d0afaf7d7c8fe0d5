package query

import (
	"time"

	"github.com/dori/taskhive/internal/model"
)

// UpcomingLimit caps the upcoming list on the dashboard
const UpcomingLimit = 4

// DashboardView is what the home screen shows
type DashboardView struct {
	Greeting string
	Today    []model.Task
	Overdue  []model.Task
	Upcoming []model.Task
}

// Dashboard picks today's open tasks, the overdue ones and the next few open
// tasks by due date
func Dashboard(tasks []model.Task, now time.Time) DashboardView {
	v := DashboardView{Greeting: Greeting(now)}
	var open []model.Task
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		open = append(open, t)
		if t.IsDueOn(now) {
			v.Today = append(v.Today, t)
		}
		if t.IsOverdue(now) {
			v.Overdue = append(v.Overdue, t)
		}
	}
	v.Upcoming = Sort(open, SortDueDate, Asc)
	if len(v.Upcoming) > UpcomingLimit {
		v.Upcoming = v.Upcoming[:UpcomingLimit]
	}
	return v
}

// Greeting returns the salutation for the hour of now
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

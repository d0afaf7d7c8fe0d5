package query

import (
	"slices"
	"time"

	"github.com/dori/taskhive/internal/model"
)

// PriorityShare is one row of the priority distribution
type PriorityShare struct {
	Priority   model.Priority `json:"priority"`
	Count      int            `json:"count"`
	Percentage float64        `json:"percentage"`
}

// PriorityDistribution returns high, medium and low shares in that order
func PriorityDistribution(tasks []model.Task) []PriorityShare {
	counts := make(map[model.Priority]int)
	for _, t := range tasks {
		counts[t.Priority]++
	}
	var out []PriorityShare
	for _, p := range model.Priorities() {
		out = append(out, PriorityShare{
			Priority:   p,
			Count:      counts[p],
			Percentage: model.Percent(counts[p], len(tasks)),
		})
	}
	return out
}

// UserPerformance is one row of the team table
type UserPerformance struct {
	User           model.User `json:"user"`
	Total          int        `json:"total"`
	Completed      int        `json:"completed"`
	CompletionRate float64    `json:"completionRate"`
}

// TeamPerformance counts each user's assigned and completed tasks, best
// completion rate first. Equal rates keep the user order.
func TeamPerformance(users []model.User, tasks []model.Task) []UserPerformance {
	out := make([]UserPerformance, 0, len(users))
	for _, u := range users {
		row := UserPerformance{User: u}
		for _, t := range tasks {
			if !t.IsAssignedTo(u.ID) {
				continue
			}
			row.Total++
			if t.Completed {
				row.Completed++
			}
		}
		row.CompletionRate = model.Percent(row.Completed, row.Total)
		out = append(out, row)
	}
	slices.SortStableFunc(out, func(a, b UserPerformance) int {
		switch {
		case a.CompletionRate > b.CompletionRate:
			return -1
		case a.CompletionRate < b.CompletionRate:
			return 1
		}
		return 0
	})
	return out
}

// CollaborativeCount returns how many tasks have more than one assignee
func CollaborativeCount(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if len(t.AssignedTo) > 1 {
			n++
		}
	}
	return n
}

// SubtaskProgress returns completed and total subtask counts
func SubtaskProgress(t model.Task) (completed, total int) {
	for _, s := range t.Subtasks {
		if s.Completed {
			completed++
		}
	}
	return completed, len(t.Subtasks)
}

// ComputeAnalytics derives the dashboard aggregate from tasks. Completed,
// overdue and in progress partition the total. The weekly
// series covers Monday to Sunday of now's week: created counts tasks by
// createdAt, completed counts completed tasks by updatedAt.
func ComputeAnalytics(tasks []model.Task, now time.Time) model.Analytics {
	a := model.Analytics{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch {
		case t.Completed:
			a.TasksCompleted++
		case t.IsOverdue(now):
			a.TasksOverdue++
		default:
			a.TasksInProgress++
		}
	}

	monday := weekStart(now)
	days := make(map[string]int, 7)
	a.WeeklyProgress = make([]model.DayProgress, 7)
	for i, label := range model.WeekDays {
		a.WeeklyProgress[i].Day = label
		days[model.FormatDate(monday.AddDate(0, 0, i))] = i
	}
	for _, t := range tasks {
		if i, ok := days[model.FormatDate(t.CreatedAt.In(now.Location()))]; ok {
			a.WeeklyProgress[i].Created++
		}
		if !t.Completed {
			continue
		}
		if i, ok := days[model.FormatDate(t.UpdatedAt.In(now.Location()))]; ok {
			a.WeeklyProgress[i].Completed++
		}
	}
	return a
}

// weekStart returns midnight of the Monday on or before t
func weekStart(t time.Time) time.Time {
	day := model.StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

package model

// DayProgress is one entry of the weekly series
type DayProgress struct {
	Day       string `json:"day" yaml:"day"`
	Completed int    `json:"completed" yaml:"completed"`
	Created   int    `json:"created" yaml:"created"`
}

// Analytics is a dashboard aggregate
type Analytics struct {
	TasksCompleted  int           `json:"tasksCompleted"`
	TasksOverdue    int           `json:"tasksOverdue"`
	TasksInProgress int           `json:"tasksInProgress"`
	TotalTasks      int           `json:"totalTasks"`
	WeeklyProgress  []DayProgress `json:"weeklyProgress"`
}

// CompletionRate returns completed/total as a percentage, 0 when empty
func (a *Analytics) CompletionRate() float64 {
	return Percent(a.TasksCompleted, a.TotalTasks)
}

// OverdueRate returns overdue/total as a percentage, 0 when empty
func (a *Analytics) OverdueRate() float64 {
	return Percent(a.TasksOverdue, a.TotalTasks)
}

// Clone returns a copy with its own weekly series
func (a Analytics) Clone() Analytics {
	c := a
	c.WeeklyProgress = append([]DayProgress(nil), a.WeeklyProgress...)
	return c
}

// WeekDays are the weekly series labels, Monday first
var WeekDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

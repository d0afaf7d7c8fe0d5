// Package seed holds the fixed reference data used when no snapshot exists.
package seed

import (
	"time"

	"github.com/dori/taskhive/internal/model"
)

// DefaultUserID is the user bound by federated login and by email fallback
const DefaultUserID = "1"

// Users returns the reference user set
func Users() []model.User {
	return []model.User{
		{
			ID:     "1",
			Name:   "Assim Ettisum",
			Email:  "asim@outlook.com",
			Avatar: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=40&h=40&fit=crop&crop=face",
			Role:   "CEO",
		},
		{
			ID:     "2",
			Name:   "Sarah Connor",
			Email:  "sarah@asimtask.com",
			Avatar: "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=40&h=40&fit=crop&crop=face",
			Role:   "Project Manager",
		},
		{
			ID:     "3",
			Name:   "John Doe",
			Email:  "john@asimtask.com",
			Avatar: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=40&h=40&fit=crop&crop=face",
			Role:   "Developer",
		},
		{
			ID:     "4",
			Name:   "Jane Smith",
			Email:  "jane@asimtask.com",
			Avatar: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=40&h=40&fit=crop&crop=face",
			Role:   "Designer",
		},
	}
}

// Tasks returns the initial task list
func Tasks() []model.Task {
	return []model.Task{
		{
			ID:          "1",
			Title:       "Review quarterly budget proposals",
			Description: "Analyze and approve budget allocations for Q4 across all departments.",
			Priority:    model.PriorityHigh,
			DueDate:     "2024-01-15",
			AssignedTo:  []string{"1", "2"},
			Subtasks: []model.Subtask{
				{ID: "1-1", Title: "Review marketing budget", Completed: true},
				{ID: "1-2", Title: "Review engineering budget"},
				{ID: "1-3", Title: "Review HR budget"},
			},
			Comments: []model.Comment{
				{
					ID:        "c1",
					UserID:    "2",
					Content:   "Marketing budget looks good, but we might need to allocate more for engineering.",
					CreatedAt: ts("2024-01-10T10:30:00Z"),
				},
			},
			CreatedAt: ts("2024-01-08T09:00:00Z"),
			UpdatedAt: ts("2024-01-10T15:45:00Z"),
		},
		{
			ID:          "2",
			Title:       "Prepare presentation for board meeting",
			Description: "Create comprehensive presentation covering company progress and future roadmap.",
			Priority:    model.PriorityHigh,
			DueDate:     "2024-01-18",
			AssignedTo:  []string{"1"},
			Subtasks: []model.Subtask{
				{ID: "2-1", Title: "Gather financial data", Completed: true},
				{ID: "2-2", Title: "Create slide deck"},
				{ID: "2-3", Title: "Prepare speaking notes"},
			},
			Comments:  []model.Comment{},
			CreatedAt: ts("2024-01-09T14:20:00Z"),
			UpdatedAt: ts("2024-01-11T11:30:00Z"),
		},
		{
			ID:          "3",
			Title:       "Update website design system",
			Description: "Refresh the design system with new components and improved accessibility.",
			Completed:   true,
			Priority:    model.PriorityMedium,
			DueDate:     "2024-01-12",
			AssignedTo:  []string{"4"},
			Subtasks: []model.Subtask{
				{ID: "3-1", Title: "Audit current components", Completed: true},
				{ID: "3-2", Title: "Design new components", Completed: true},
				{ID: "3-3", Title: "Update documentation", Completed: true},
			},
			Comments: []model.Comment{
				{
					ID:        "c2",
					UserID:    "4",
					Content:   "All components have been updated with improved accessibility features.",
					CreatedAt: ts("2024-01-12T16:00:00Z"),
				},
			},
			CreatedAt: ts("2024-01-05T10:00:00Z"),
			UpdatedAt: ts("2024-01-12T16:00:00Z"),
		},
		{
			ID:          "4",
			Title:       "Implement user authentication system",
			Description: "Build secure authentication with OAuth integration and multi-factor authentication.",
			Priority:    model.PriorityHigh,
			DueDate:     "2024-01-25",
			AssignedTo:  []string{"3"},
			Subtasks: []model.Subtask{
				{ID: "4-1", Title: "Set up OAuth providers", Completed: true},
				{ID: "4-2", Title: "Implement MFA"},
				{ID: "4-3", Title: "Add password reset flow"},
				{ID: "4-4", Title: "Write tests"},
			},
			Comments: []model.Comment{
				{
					ID:        "c3",
					UserID:    "3",
					Content:   "OAuth integration is complete. Working on MFA next.",
					CreatedAt: ts("2024-01-11T14:30:00Z"),
				},
			},
			CreatedAt: ts("2024-01-07T08:15:00Z"),
			UpdatedAt: ts("2024-01-11T14:30:00Z"),
		},
		{
			ID:          "5",
			Title:       "Plan team building event",
			Description: "Organize quarterly team building event for all departments.",
			Priority:    model.PriorityLow,
			DueDate:     "2024-02-01",
			AssignedTo:  []string{"2"},
			Subtasks: []model.Subtask{
				{ID: "5-1", Title: "Survey team preferences"},
				{ID: "5-2", Title: "Book venue"},
				{ID: "5-3", Title: "Plan activities"},
			},
			Comments:  []model.Comment{},
			CreatedAt: ts("2024-01-10T13:45:00Z"),
			UpdatedAt: ts("2024-01-10T13:45:00Z"),
		},
	}
}

// Analytics returns the static dashboard snapshot
func Analytics() model.Analytics {
	return model.Analytics{
		TasksCompleted:  12,
		TasksOverdue:    3,
		TasksInProgress: 8,
		TotalTasks:      23,
		WeeklyProgress: []model.DayProgress{
			{Day: "Mon", Completed: 3, Created: 2},
			{Day: "Tue", Completed: 2, Created: 4},
			{Day: "Wed", Completed: 5, Created: 3},
			{Day: "Thu", Completed: 1, Created: 1},
			{Day: "Fri", Completed: 4, Created: 2},
			{Day: "Sat", Completed: 1, Created: 0},
			{Day: "Sun", Completed: 2, Created: 1},
		},
	}
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

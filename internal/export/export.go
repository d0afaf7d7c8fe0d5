// Package export builds the read-only analytics report.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dori/taskhive/internal/model"
)

// Formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Summary holds the headline counts
type Summary struct {
	TotalTasks int `json:"totalTasks" yaml:"totalTasks"`
	Completed  int `json:"completed" yaml:"completed"`
	InProgress int `json:"inProgress" yaml:"inProgress"`
	Overdue    int `json:"overdue" yaml:"overdue"`
}

// TaskRow is the exported view of a task
type TaskRow struct {
	Title     string         `json:"title" yaml:"title"`
	Priority  model.Priority `json:"priority" yaml:"priority"`
	Status    string         `json:"status" yaml:"status"`
	DueDate   string         `json:"dueDate" yaml:"dueDate"`
	CreatedAt time.Time      `json:"createdAt" yaml:"createdAt"`
}

// Report is the export document
type Report struct {
	Summary        Summary             `json:"summary" yaml:"summary"`
	WeeklyProgress []model.DayProgress `json:"weeklyProgress" yaml:"weeklyProgress"`
	Tasks          []TaskRow           `json:"tasks" yaml:"tasks"`
}

// Build projects analytics and tasks into a report
func Build(a model.Analytics, tasks []model.Task) Report {
	r := Report{
		Summary: Summary{
			TotalTasks: a.TotalTasks,
			Completed:  a.TasksCompleted,
			InProgress: a.TasksInProgress,
			Overdue:    a.TasksOverdue,
		},
		WeeklyProgress: append([]model.DayProgress{}, a.WeeklyProgress...),
		Tasks:          make([]TaskRow, 0, len(tasks)),
	}
	for _, t := range tasks {
		r.Tasks = append(r.Tasks, TaskRow{
			Title:     t.Title,
			Priority:  t.Priority,
			Status:    t.Status(),
			DueDate:   t.DueDate,
			CreatedAt: t.CreatedAt,
		})
	}
	return r
}

// ParseFormat normalizes a format name
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write encodes r to w
func Write(w io.Writer, r Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown export format %q", format)
}

// FileName returns taskhive-analytics-YYYY-MM-DD.<format>, dated in UTC
func FileName(now time.Time, format string) string {
	return fmt.Sprintf("taskhive-analytics-%s.%s", model.FormatDate(now.UTC()), format)
}

// WriteFile writes r into dir under FileName and returns the path
func WriteFile(dir string, now time.Time, r Report, format string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, FileName(now, format))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Write(f, r, format); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dori/taskhive/internal/seed"
)

func TestBuild(t *testing.T) {
	r := Build(seed.Analytics(), seed.Tasks())

	if r.Summary != (Summary{TotalTasks: 23, Completed: 12, InProgress: 8, Overdue: 3}) {
		t.Errorf("summary = %+v", r.Summary)
	}
	if len(r.WeeklyProgress) != 7 || r.WeeklyProgress[2].Day != "Wed" {
		t.Errorf("weekly = %+v", r.WeeklyProgress)
	}
	if len(r.Tasks) != 5 {
		t.Fatalf("got %d tasks", len(r.Tasks))
	}
	if r.Tasks[2].Status != "completed" || r.Tasks[0].Status != "pending" {
		t.Errorf("statuses = %s / %s", r.Tasks[0].Status, r.Tasks[2].Status)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Build(seed.Analytics(), seed.Tasks()), FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"summary", "weeklyProgress", "tasks"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing %s", key)
		}
	}
	if !strings.Contains(buf.String(), "\n  \"summary\"") {
		t.Error("output not indented")
	}
	if !strings.Contains(buf.String(), `"dueDate": "2024-01-15"`) {
		t.Error("task due date missing")
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Build(seed.Analytics(), seed.Tasks()), FormatYAML); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var r Report
	if err := yaml.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if r.Summary.TotalTasks != 23 || len(r.Tasks) != 5 {
		t.Errorf("decoded = %+v", r.Summary)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Report{}, "csv"); err == nil {
		t.Error("expected error")
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("expected error")
	}
	if f, _ := ParseFormat("YML"); f != FormatYAML {
		t.Errorf("ParseFormat(YML) = %q", f)
	}
}

func TestFileNameUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2024, 1, 16, 8, 0, 0, 0, loc)
	if got := FileName(now, FormatJSON); got != "taskhive-analytics-2024-01-15.json" {
		t.Errorf("FileName = %s", got)
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	now := time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)

	path, err := WriteFile(dir, now, Build(seed.Analytics(), nil), FormatJSON)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if filepath.Base(path) != "taskhive-analytics-2024-01-16.json" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"tasks": []`) {
		t.Errorf("empty task list not written as []: %s", data)
	}
}

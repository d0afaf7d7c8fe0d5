package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dori/taskhive/internal/model"
	"github.com/dori/taskhive/internal/store"
)

// writeConfig points a config file at a fresh data dir with fast logins
func writeConfig(t *testing.T) (path, dataDir string) {
	t.Helper()
	dir := t.TempDir()
	dataDir = filepath.Join(dir, "data")
	path = filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`data_dir: %s
storage:
  driver: file
  name: taskhive-store
auth:
  login_delay: 1ms
  google_delay: 1ms
notifications: false
log:
  level: debug
  file: %s
`, dataDir, filepath.Join(dir, "taskhive.log"))
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, dataDir
}

func run(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := &cli{in: strings.NewReader(stdin), out: &out}
	cmd := c.rootCmd()
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	c.close()
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgPath, "", args...)
	if err != nil {
		t.Fatalf("taskhive %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestAddAndList(t *testing.T) {
	cfg, _ := writeConfig(t)

	out := mustRun(t, cfg, "add", "Write", "release", "notes", "-p", "high", "--due", "2030-01-02", "-a", "jane@asimtask.com")
	if !strings.Contains(out, "✓ Added task") {
		t.Errorf("add output = %q", out)
	}

	out = mustRun(t, cfg, "list", "--search", "RELEASE")
	if !strings.Contains(out, "Write release notes") {
		t.Errorf("list did not show the new task:\n%s", out)
	}
	if !strings.Contains(out, "Jane") {
		t.Errorf("list did not show the assignee:\n%s", out)
	}
	if strings.Contains(out, "Review quarterly budget proposals") {
		t.Errorf("search leaked other tasks:\n%s", out)
	}
}

func TestListRejectsUnknownFilter(t *testing.T) {
	cfg, _ := writeConfig(t)
	if _, err := run(t, cfg, "", "list", "--filter", "urgent"); err == nil {
		t.Error("list accepted an unknown filter")
	}
}

func TestAddValidation(t *testing.T) {
	cfg, _ := writeConfig(t)
	for _, args := range [][]string{
		{"add", "x", "-p", "urgent"},
		{"add", "x", "--due", "tomorrow"},
		{"add", "x", "-a", "nobody@example.com"},
	} {
		if _, err := run(t, cfg, "", args...); err == nil {
			t.Errorf("%v succeeded, want error", args)
		}
	}
}

func TestDoneAndEditPersist(t *testing.T) {
	cfg, _ := writeConfig(t)

	mustRun(t, cfg, "done", "3")
	mustRun(t, cfg, "edit", "3", "--title", "Renamed", "-p", "low")

	out := mustRun(t, cfg, "show", "3")
	for _, want := range []string{"Renamed", "completed", "low"} {
		if !strings.Contains(out, want) {
			t.Errorf("show missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, cfg, "done", "3", "--undo")
	if !strings.Contains(out, "Reopened") {
		t.Errorf("undo output = %q", out)
	}
}

func TestEditNeedsAFlag(t *testing.T) {
	cfg, _ := writeConfig(t)
	if _, err := run(t, cfg, "", "edit", "1"); err == nil {
		t.Error("edit without flags succeeded")
	}
}

func TestRemoveAndToggle(t *testing.T) {
	cfg, _ := writeConfig(t)

	out := mustRun(t, cfg, "toggle", "1", "2")
	if !strings.Contains(out, "Toggled 2") {
		t.Errorf("toggle output = %q", out)
	}
	out = mustRun(t, cfg, "rm", "4", "5")
	if !strings.Contains(out, "Deleted 2") {
		t.Errorf("rm output = %q", out)
	}
	if _, err := run(t, cfg, "", "show", "4"); !errors.Is(err, model.ErrTaskNotFound) {
		t.Errorf("show deleted task = %v, want ErrTaskNotFound", err)
	}
}

func TestLoginFlow(t *testing.T) {
	cfg, _ := writeConfig(t)

	if _, err := run(t, cfg, "", "comment", "1", "hello"); !errors.Is(err, errNotLoggedIn) {
		t.Errorf("comment while signed out = %v", err)
	}

	if _, err := run(t, cfg, "12345\n", "login", "--email", "sarah@asimtask.com"); err == nil {
		t.Error("login accepted a five character password")
	}

	out, err := run(t, cfg, "123456\n", "login", "--email", "sarah@asimtask.com")
	if err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Sarah Connor") {
		t.Errorf("login output = %q", out)
	}

	out = mustRun(t, cfg, "whoami")
	if !strings.Contains(out, "sarah@asimtask.com") {
		t.Errorf("whoami = %q", out)
	}

	mustRun(t, cfg, "comment", "1", "Looks", "fine")
	out = mustRun(t, cfg, "show", "1")
	if !strings.Contains(out, "Looks fine") {
		t.Errorf("comment not shown:\n%s", out)
	}

	mustRun(t, cfg, "logout")
	if out := mustRun(t, cfg, "whoami"); !strings.Contains(out, "Not logged in") {
		t.Errorf("whoami after logout = %q", out)
	}
}

func TestLoginPromptsForEmail(t *testing.T) {
	cfg, _ := writeConfig(t)
	out, err := run(t, cfg, "john@asimtask.com\nsecret1\n", "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "John Doe") {
		t.Errorf("login output = %q", out)
	}
}

func TestLoginWithGoogle(t *testing.T) {
	cfg, _ := writeConfig(t)
	mustRun(t, cfg, "login", "--google")
	if out := mustRun(t, cfg, "whoami"); !strings.Contains(out, "Assim Ettisum") {
		t.Errorf("whoami = %q", out)
	}
}

func TestSubtaskCommands(t *testing.T) {
	cfg, _ := writeConfig(t)

	out := mustRun(t, cfg, "subtask", "add", "1", "Review", "legal", "budget")
	if !strings.Contains(out, "1-4") {
		t.Errorf("subtask add = %q", out)
	}
	out = mustRun(t, cfg, "subtask", "toggle", "1", "1-4")
	if !strings.Contains(out, "2/4") {
		t.Errorf("subtask toggle = %q", out)
	}
	if _, err := run(t, cfg, "", "subtask", "toggle", "1", "1-99"); err == nil {
		t.Error("toggling a missing subtask succeeded")
	}
}

func TestThemePersists(t *testing.T) {
	cfg, _ := writeConfig(t)

	if out := mustRun(t, cfg, "theme", "dark"); !strings.Contains(out, "dark") {
		t.Errorf("theme dark = %q", out)
	}
	if out := mustRun(t, cfg, "theme"); !strings.Contains(out, "dark") {
		t.Errorf("theme after restart = %q", out)
	}
	if out := mustRun(t, cfg, "theme", "toggle"); !strings.Contains(out, "light") {
		t.Errorf("theme toggle = %q", out)
	}
	if _, err := run(t, cfg, "", "theme", "sepia"); err == nil {
		t.Error("unknown theme accepted")
	}
}

func TestExport(t *testing.T) {
	cfg, _ := writeConfig(t)

	out := mustRun(t, cfg, "export", "--stdout", "--format", "yaml")
	if !strings.Contains(out, "summary:") || !strings.Contains(out, "totalTasks: 23") {
		t.Errorf("yaml export:\n%s", out)
	}

	dir := t.TempDir()
	out = mustRun(t, cfg, "export", "--dir", dir)
	if !strings.Contains(out, "Exported 5 tasks") {
		t.Errorf("export output = %q", out)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "taskhive-analytics-*.json"))
	if len(matches) != 1 {
		t.Errorf("export files = %v", matches)
	}
}

func TestViews(t *testing.T) {
	cfg, _ := writeConfig(t)

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"calendar", "--month", "2024-01"}, []string{"January 2024", "Sun", "15"}},
		{[]string{"stats"}, []string{"Weekly progress", "Priority distribution", "Collaborative tasks"}},
		{[]string{"dashboard"}, []string{"Due today", "Overdue", "Upcoming"}},
		{[]string{"users"}, []string{"Sarah Connor", "Developer"}},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out := mustRun(t, cfg, tt.args...)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("%s output missing %q:\n%s", tt.args[0], want, out)
				}
			}
		})
	}
}

func TestConfigPathSkipsApp(t *testing.T) {
	cfg, dataDir := writeConfig(t)

	out := mustRun(t, cfg, "config", "path")
	if strings.TrimSpace(out) != cfg {
		t.Errorf("config path = %q, want %q", out, cfg)
	}
	if _, err := os.Stat(dataDir); !os.IsNotExist(err) {
		t.Errorf("config path opened the data dir: %v", err)
	}
}

func TestFindTaskByPrefix(t *testing.T) {
	s := store.New(store.Options{Tasks: []model.Task{
		{ID: "0192-aaaa", Title: "a", Priority: model.PriorityLow},
		{ID: "0192-aabb", Title: "b", Priority: model.PriorityLow},
		{ID: "0193-cccc", Title: "c", Priority: model.PriorityLow},
	}})

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{"0192-aaaa", "0192-aaaa", nil},
		{"0193", "0193-cccc", nil},
		{"0192-aab", "0192-aabb", nil},
		{"0192", "", errAmbiguousID},
		{"9", "", model.ErrTaskNotFound},
	}
	for _, tt := range tests {
		got, err := findTask(s, tt.ref)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("findTask(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got.ID != tt.want {
			t.Errorf("findTask(%q) = %q, %v, want %q", tt.ref, got.ID, err, tt.want)
		}
	}
}

func TestShortIDs(t *testing.T) {
	tasks := []model.Task{
		{ID: "1"},
		{ID: "01920000-0000-7000-8000-000000000001"},
		{ID: "01920000-0000-7000-8000-000000000002"},
		{ID: "01930000-0000-7000-8000-000000000003"},
	}
	short := shortIDs(tasks)

	if short["1"] != "1" {
		t.Errorf("short id of 1 = %q", short["1"])
	}
	if got := short[tasks[3].ID]; got != "01930000" {
		t.Errorf("short id = %q, want 01930000", got)
	}
	a, b := short[tasks[1].ID], short[tasks[2].ID]
	if a == b || strings.HasPrefix(tasks[2].ID, a) || strings.HasPrefix(tasks[1].ID, b) {
		t.Errorf("short ids %q and %q are not unique", a, b)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		n, peak int
		want    string
	}{
		{0, 10, "    "},
		{10, 10, "████"},
		{1, 100, "█   "},
		{5, 10, "██  "},
		{3, 0, "    "},
	}
	for _, tt := range tests {
		if got := bar(tt.n, tt.peak, 4); got != tt.want {
			t.Errorf("bar(%d, %d, 4) = %q, want %q", tt.n, tt.peak, got, tt.want)
		}
	}
}

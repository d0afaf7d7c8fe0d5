package notify

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/dori/taskhive/internal/model"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) run(name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.err
}

func testNotifier(r *recorder) *Notifier {
	n := NewNotifier()
	n.run = r.run
	return n
}

func TestSendBuildsArgs(t *testing.T) {
	r := &recorder{}
	n := testNotifier(r)

	err := n.Send(Notification{Title: "Hello", Body: "World", Urgency: UrgencyCritical, Timeout: 2 * time.Second, Icon: "dialog"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	want := []string{"notify-send", "-u", "critical", "-t", "2000", "-i", "dialog", "-a", "taskhive", "Hello", "World"}
	if len(r.calls) != 1 || !slices.Equal(r.calls[0], want) {
		t.Errorf("calls = %v, want %v", r.calls, want)
	}
}

func TestDisabledNotifierSendsNothing(t *testing.T) {
	r := &recorder{}
	n := testNotifier(r)
	n.SetEnabled(false)

	if err := n.SendSimple("x", "y"); err != nil {
		t.Fatal(err)
	}
	if len(r.calls) != 0 {
		t.Errorf("disabled notifier ran %v", r.calls)
	}
}

func TestDueReminder(t *testing.T) {
	now := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		task    model.Task
		ok      bool
		urgency Urgency
	}{
		{"due today", model.Task{Title: "a", DueDate: "2024-01-16"}, true, UrgencyNormal},
		{"overdue", model.Task{Title: "b", DueDate: "2024-01-10"}, true, UrgencyCritical},
		{"future", model.Task{Title: "c", DueDate: "2024-01-20"}, false, 0},
		{"done", model.Task{Title: "d", DueDate: "2024-01-10", Completed: true}, false, 0},
		{"undated", model.Task{Title: "e"}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := DueReminder(tt.task, now)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (n.Urgency != tt.urgency || n.Title != tt.task.Title) {
				t.Errorf("notification = %+v", n)
			}
		})
	}
}

func TestSendDueReminders(t *testing.T) {
	now := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{Title: "today", DueDate: "2024-01-16"},
		{Title: "later", DueDate: "2024-02-01"},
		{Title: "late", DueDate: "2024-01-02"},
	}

	r := &recorder{}
	sent, err := testNotifier(r).SendDueReminders(tasks, now)
	if err != nil || sent != 2 {
		t.Errorf("sent = %d, %v, want 2", sent, err)
	}

	r = &recorder{err: errors.New("no notify-send")}
	sent, err = testNotifier(r).SendDueReminders(tasks, now)
	if err == nil || sent != 0 {
		t.Errorf("sent = %d, %v, want failure after 0", sent, err)
	}
}

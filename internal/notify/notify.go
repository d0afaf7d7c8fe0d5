package notify

import (
	"os/exec"
	"strconv"
	"time"

	"github.com/dori/taskhive/internal/model"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     func(name string, args ...string) error
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{
		enabled: true,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}
	return n.run("notify-send", args(notification)...)
}

func args(notification Notification) []string {
	var out []string

	switch notification.Urgency {
	case UrgencyLow:
		out = append(out, "-u", "low")
	case UrgencyCritical:
		out = append(out, "-u", "critical")
	default:
		out = append(out, "-u", "normal")
	}

	// milliseconds
	if notification.Timeout > 0 {
		out = append(out, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		out = append(out, "-i", notification.Icon)
	}

	out = append(out, "-a", "taskhive")

	out = append(out, notification.Title)
	if notification.Body != "" {
		out = append(out, notification.Body)
	}
	return out
}

// SendSimple sends a simple notification with title and body
func (n *Notifier) SendSimple(title, body string) error {
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}

// DueReminder builds the reminder for a task that is due today or overdue.
// ok is false for completed tasks and tasks due later.
func DueReminder(t model.Task, now time.Time) (Notification, bool) {
	if t.Completed {
		return Notification{}, false
	}

	switch {
	case t.IsDueOn(now):
		return Notification{
			Title:   t.Title,
			Body:    "Task due today",
			Urgency: UrgencyNormal,
			Timeout: 15 * time.Second,
			Icon:    "appointment-soon-symbolic",
		}, true
	case t.IsOverdue(now):
		return Notification{
			Title:   t.Title,
			Body:    "Task is now overdue!",
			Urgency: UrgencyCritical,
			Timeout: 15 * time.Second,
			Icon:    "emblem-important-symbolic",
		}, true
	}
	return Notification{}, false
}

// SendDueReminders notifies about every open task due today or earlier and
// returns how many were sent. It stops at the first failure.
func (n *Notifier) SendDueReminders(tasks []model.Task, now time.Time) (int, error) {
	sent := 0
	for _, t := range tasks {
		notification, ok := DueReminder(t, now)
		if !ok {
			continue
		}
		if err := n.Send(notification); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

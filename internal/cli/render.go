package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dori/taskhive/internal/model"
	"github.com/dori/taskhive/internal/query"
	"github.com/dori/taskhive/internal/store"
	"github.com/dori/taskhive/internal/ui/theme"
)

const minShortID = 8

var errAmbiguousID = errors.New("ambiguous task id")

// shortIDs maps each task id to its shortest unique prefix of at least
// minShortID characters
func shortIDs(tasks []model.Task) map[string]string {
	out := make(map[string]string, len(tasks))
	for _, t := range tasks {
		n := min(minShortID, len(t.ID))
		for ; n < len(t.ID); n++ {
			prefix := t.ID[:n]
			unique := true
			for _, other := range tasks {
				if other.ID != t.ID && strings.HasPrefix(other.ID, prefix) {
					unique = false
					break
				}
			}
			if unique {
				break
			}
		}
		out[t.ID] = t.ID[:n]
	}
	return out
}

// findTask resolves an exact id or a unique id prefix
func findTask(s *store.Store, ref string) (model.Task, error) {
	if t, ok := s.Task(ref); ok {
		return t, nil
	}
	var match []model.Task
	for _, t := range s.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			match = append(match, t)
		}
	}
	switch len(match) {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", model.ErrTaskNotFound, ref)
	case 1:
		return match[0], nil
	}
	return model.Task{}, fmt.Errorf("%w: %s matches %d tasks", errAmbiguousID, ref, len(match))
}

func userNames(s *store.Store, t model.Task) string {
	var names []string
	for _, u := range s.Assignees(t) {
		names = append(names, u.FirstName())
	}
	return strings.Join(names, ", ")
}

func renderTaskTable(st theme.Styles, s *store.Store, tasks []model.Task, now time.Time) string {
	short := shortIDs(s.Tasks())
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done, total := query.SubtaskProgress(t)
		subtasks := ""
		if total > 0 {
			subtasks = fmt.Sprintf("%d/%d", done, total)
		}
		check := "○"
		if t.Completed {
			check = "✓"
		}
		rows = append(rows, []string{
			short[t.ID],
			check,
			t.Title,
			string(t.Priority),
			t.DueDate,
			userNames(s, t),
			subtasks,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(st.Theme.Border)).
		Headers("ID", "", "TITLE", "PRIORITY", "DUE", "ASSIGNED", "SUBTASKS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Foreground(st.Theme.Primary).Bold(true)
			}
			t := tasks[row]
			switch {
			case col == 0:
				return base.Foreground(st.Theme.Subtle)
			case col == 3:
				return base.Foreground(st.Theme.PriorityColor(t.Priority))
			case t.Completed:
				return base.Foreground(st.Theme.Subtle).Strikethrough(col == 2)
			case t.IsOverdue(now):
				return base.Foreground(st.Theme.Error)
			}
			return base.Foreground(st.Theme.Foreground)
		}).
		String()
}

func renderComments(st theme.Styles, s *store.Store, comments []model.Comment, depth int) string {
	var b strings.Builder
	indent := strings.Repeat("  ", depth)
	for _, c := range comments {
		author := c.UserID
		if u, ok := s.User(c.UserID); ok {
			author = u.Name
		}
		fmt.Fprintf(&b, "%s%s %s\n", indent,
			st.PanelTitle.Render(author),
			st.Label.Render(c.CreatedAt.Local().Format("Jan 2 15:04")))
		fmt.Fprintf(&b, "%s  %s\n", indent, c.Content)
		b.WriteString(renderComments(st, s, c.Replies, depth+1))
	}
	return b.String()
}

// bar renders a horizontal bar scaled to width, padded to width
func bar(n, peak, width int) string {
	w := 0
	if peak > 0 && n > 0 {
		w = max(n*width/peak, 1)
	}
	return strings.Repeat("█", w) + strings.Repeat(" ", width-w)
}

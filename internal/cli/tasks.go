package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dori/taskhive/internal/model"
	"github.com/dori/taskhive/internal/query"
)

var errNotLoggedIn = errors.New("not logged in: run 'taskhive login' first")

func (c *cli) listCmd() *cobra.Command {
	var (
		search string
		filter string
		sortBy string
		order  string
		mine   bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks, optionally searched, filtered and sorted.

Filters: all, pending, completed, overdue, high, medium, low
Sort keys: dueDate, priority, createdAt, title

Examples:
  taskhive list
  taskhive list --filter overdue
  taskhive list --search report --sort priority --order desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := query.ParseFilter(filter)
			if err != nil {
				return err
			}
			key, err := query.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			ord, err := query.ParseOrder(order)
			if err != nil {
				return err
			}

			s := c.app.Store
			now := s.Now()
			all := s.Tasks()
			if mine {
				u, ok := s.CurrentUser()
				if !ok {
					return errNotLoggedIn
				}
				var own []model.Task
				for _, t := range all {
					if t.IsAssignedTo(u.ID) {
						own = append(own, t)
					}
				}
				all = own
			}

			tasks := query.List(all, query.Options{Search: search, Filter: f, Sort: key, Order: ord}, now)
			st := c.styles()
			if len(tasks) == 0 {
				c.println(st.Label.Render("No tasks found"))
				return nil
			}
			c.println(renderTaskTable(st, s, tasks, now))

			counts := query.FilterCounts(all, now)
			var parts []string
			for _, f := range query.Filters() {
				parts = append(parts, fmt.Sprintf("%s %d", f, counts[f]))
			}
			c.println(st.Footer.Render(strings.Join(parts, " · ")))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match title or description (case-insensitive)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Status or priority filter")
	cmd.Flags().StringVar(&sortBy, "sort", "dueDate", "Sort key")
	cmd.Flags().StringVar(&order, "order", "asc", "Sort order (asc, desc)")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only tasks assigned to the current user")
	return cmd
}

// taskFlags are shared by add and edit
type taskFlags struct {
	title       string
	description string
	priority    string
	due         string
	assign      []string
}

func (f *taskFlags) bind(cmd *cobra.Command, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVarP(&f.title, "title", "t", "", "Task title")
	}
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "Description")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "medium", "Priority (low, medium, high)")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&f.assign, "assign", "a", nil, "Assignee user ids or emails")
}

func (c *cli) parsePriority(s string) (model.Priority, error) {
	p, ok := model.ParsePriority(strings.ToLower(s))
	if !ok {
		return "", fmt.Errorf("invalid priority %q: use low, medium or high", s)
	}
	return p, nil
}

func (c *cli) parseDue(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	d, ok := model.NormalizeDate(s)
	if !ok {
		return "", fmt.Errorf("invalid due date %q: use YYYY-MM-DD", s)
	}
	return d, nil
}

// resolveUsers accepts user ids or emails
func (c *cli) resolveUsers(refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if u, ok := c.app.Store.User(ref); ok {
			ids = append(ids, u.ID)
			continue
		}
		found := false
		for _, u := range c.app.Store.Users() {
			if strings.EqualFold(u.Email, ref) {
				ids = append(ids, u.ID)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", model.ErrUserNotFound, ref)
		}
	}
	return ids, nil
}

func (c *cli) addCmd() *cobra.Command {
	var (
		f        taskFlags
		subtasks []string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Long: `Add a new task.

Examples:
  taskhive add "Write release notes"
  taskhive add "Fix login bug" -p high --due 2026-10-20 -a 2
  taskhive add "Launch" --subtask "Draft" --subtask "Review"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := c.parsePriority(f.priority)
			if err != nil {
				return err
			}
			due, err := c.parseDue(f.due)
			if err != nil {
				return err
			}
			assignees, err := c.resolveUsers(f.assign)
			if err != nil {
				return err
			}

			s := c.app.Store
			task, err := s.AddTask(model.TaskInput{
				Title:       strings.Join(args, " "),
				Description: f.description,
				Priority:    priority,
				DueDate:     due,
				AssignedTo:  assignees,
			})
			if err != nil {
				return err
			}
			for _, title := range subtasks {
				if _, ok := s.AddSubtask(task.ID, title); !ok {
					return fmt.Errorf("failed to add subtask %q", title)
				}
			}

			c.printf("✓ Added task %s: %s\n", task.ID, task.Title)
			return nil
		},
	}
	f.bind(cmd, false)
	cmd.Flags().StringArrayVar(&subtasks, "subtask", nil, "Subtask title (repeatable)")
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task. Only the flags given are changed.

Examples:
  taskhive edit 3 --title "New title"
  taskhive edit 3 -p low --due ""
  taskhive edit 3 --assign 1,2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			task, err := findTask(s, args[0])
			if err != nil {
				return err
			}

			var patch model.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &f.title
			}
			if flags.Changed("desc") {
				patch.Description = &f.description
			}
			if flags.Changed("priority") {
				p, err := c.parsePriority(f.priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if flags.Changed("due") {
				due, err := c.parseDue(f.due)
				if err != nil {
					return err
				}
				patch.DueDate = &due
			}
			if flags.Changed("assign") {
				assignees, err := c.resolveUsers(f.assign)
				if err != nil {
					return err
				}
				patch.AssignedTo = &assignees
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change: pass at least one flag")
			}

			if _, err := s.UpdateTask(task.ID, patch); err != nil {
				return err
			}
			c.printf("✓ Updated task %s\n", task.ID)
			return nil
		},
	}
	f.bind(cmd, true)
	return cmd
}

func (c *cli) doneCmd() *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <id>...",
		Short: "Mark tasks as completed",
		Long: `Mark one or more tasks as completed.

Examples:
  taskhive done 3
  taskhive done 3 4 5
  taskhive done 3 --undo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			completed := !undo
			for _, ref := range args {
				task, err := findTask(s, ref)
				if err != nil {
					return err
				}
				if task.Completed == completed {
					continue
				}
				if _, err := s.UpdateTask(task.ID, model.TaskPatch{Completed: &completed}); err != nil {
					return err
				}
				if completed {
					c.printf("✓ Completed: %s\n", task.Title)
				} else {
					c.printf("○ Reopened: %s\n", task.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&undo, "undo", "u", false, "Mark as not completed")
	return cmd
}

func (c *cli) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>...",
		Short: "Flip completion of tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			ids, err := c.resolveTasks(args)
			if err != nil {
				return err
			}
			n := s.ToggleTasks(ids...)
			c.printf("✓ Toggled %d task(s)\n", n)
			return nil
		},
	}
}

func (c *cli) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := c.resolveTasks(args)
			if err != nil {
				return err
			}
			n := c.app.Store.DeleteTasks(ids...)
			c.printf("✓ Deleted %d task(s)\n", n)
			return nil
		},
	}
}

func (c *cli) resolveTasks(refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		t, err := findTask(c.app.Store, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			task, err := findTask(s, args[0])
			if err != nil {
				return err
			}
			s.SelectTask(task.ID)
			task, _ = s.Selected()

			st := c.styles()
			now := s.Now()
			var b strings.Builder
			title := task.Title
			if task.Completed {
				title = st.TaskDone.Render(title)
			}
			fmt.Fprintf(&b, "%s  %s\n", st.Header.Render(title), st.Priority(task.Priority))
			fmt.Fprintf(&b, "%s %s\n", st.Label.Render("ID:"), st.ID.Render(task.ID))
			fmt.Fprintf(&b, "%s %s\n", st.Label.Render("Status:"), task.Status())
			if task.DueDate != "" {
				due := st.DueDate.Render(task.DueDate)
				if task.IsOverdue(now) {
					due = st.TaskOverdue.Render(task.DueDate + " (overdue)")
				}
				fmt.Fprintf(&b, "%s %s\n", st.Label.Render("Due:"), due)
			}
			if names := userNames(s, task); names != "" {
				fmt.Fprintf(&b, "%s %s\n", st.Label.Render("Assigned:"), names)
			}
			if task.Description != "" {
				fmt.Fprintf(&b, "\n%s\n", task.Description)
			}

			if len(task.Subtasks) > 0 {
				done, total := query.SubtaskProgress(task)
				fmt.Fprintf(&b, "\n%s %s\n", st.PanelTitle.Render("Subtasks"), st.Label.Render(fmt.Sprintf("%d/%d", done, total)))
				for _, sub := range task.Subtasks {
					check := "○"
					if sub.Completed {
						check = "✓"
					}
					fmt.Fprintf(&b, "  %s %s %s\n", check, st.ID.Render(sub.ID), sub.Title)
				}
			}
			if len(task.Comments) > 0 {
				fmt.Fprintf(&b, "\n%s\n", st.PanelTitle.Render("Comments"))
				b.WriteString(renderComments(st, s, task.Comments, 1))
			}
			c.printf("%s", st.Panel.Render(strings.TrimRight(b.String(), "\n")))
			c.println("")
			return nil
		},
	}
}

func (c *cli) commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Comment on a task as the current user",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			u, ok := s.CurrentUser()
			if !ok {
				return errNotLoggedIn
			}
			task, err := findTask(s, args[0])
			if err != nil {
				return err
			}
			comment, ok := s.AddComment(task.ID, strings.Join(args[1:], " "), u.ID)
			if !ok {
				return fmt.Errorf("%w: %s", model.ErrTaskNotFound, args[0])
			}
			c.printf("✓ Comment %s added to %s\n", comment.ID, task.Title)
			return nil
		},
	}
}

func (c *cli) subtaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage subtasks",
	}

	add := &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Add a subtask",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			task, err := findTask(s, args[0])
			if err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return errors.New("subtask title is empty")
			}
			sub, ok := s.AddSubtask(task.ID, title)
			if !ok {
				return fmt.Errorf("%w: %s", model.ErrTaskNotFound, args[0])
			}
			c.printf("✓ Added subtask %s: %s\n", sub.ID, sub.Title)
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <task-id> <subtask-id>",
		Short: "Flip a subtask's completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			task, err := findTask(s, args[0])
			if err != nil {
				return err
			}
			if !s.ToggleSubtask(task.ID, args[1]) {
				return fmt.Errorf("subtask %s not found on %s", args[1], task.ID)
			}
			task, _ = s.Task(task.ID)
			done, total := query.SubtaskProgress(task)
			c.printf("✓ Subtask %s toggled (%d/%d done)\n", args[1], done, total)
			return nil
		},
	}

	cmd.AddCommand(add, toggle)
	return cmd
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dori/taskhive/internal/model"
	"github.com/dori/taskhive/internal/query"
	"github.com/dori/taskhive/internal/ui/theme"
)

func (c *cli) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Show team members and their completion rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			st := c.styles()
			rows := [][]string{}
			for _, p := range query.TeamPerformance(s.Users(), s.Tasks()) {
				rows = append(rows, []string{
					p.User.ID,
					p.User.Name,
					p.User.Email,
					p.User.Role,
					fmt.Sprintf("%d/%d", p.Completed, p.Total),
					fmt.Sprintf("%.1f%%", p.CompletionRate),
				})
			}
			c.println(table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(st.Theme.Border)).
				Headers("ID", "NAME", "EMAIL", "ROLE", "DONE", "RATE").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					base := lipgloss.NewStyle().Padding(0, 1)
					if row == table.HeaderRow {
						return base.Foreground(st.Theme.Primary).Bold(true)
					}
					return base.Foreground(st.Theme.Foreground)
				}).
				String())
			return nil
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Aliases: []string{"analytics"},
		Short:   "Show analytics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			st := c.styles()
			a := s.Analytics()
			tasks := s.Tasks()

			c.println(st.Title.Render("Analytics"))
			c.printf("%s %d   %s %s   %s %s   %s %d\n",
				st.Label.Render("Total"), a.TotalTasks,
				st.Label.Render("Completed"), st.Success.Render(fmt.Sprint(a.TasksCompleted)),
				st.Label.Render("Overdue"), st.TaskOverdue.Render(fmt.Sprint(a.TasksOverdue)),
				st.Label.Render("In progress"), a.TasksInProgress)
			c.printf("%s %.1f%%   %s %.1f%%\n\n",
				st.Label.Render("Completion rate"), a.CompletionRate(),
				st.Label.Render("Overdue rate"), a.OverdueRate())

			c.println(st.PanelTitle.Render("Weekly progress"))
			peak := 0
			for _, d := range a.WeeklyProgress {
				peak = max(peak, d.Completed, d.Created)
			}
			for _, d := range a.WeeklyProgress {
				c.printf("  %s %s %-3d %s %d\n", d.Day,
					st.Success.Render(bar(d.Completed, peak, 20)), d.Completed,
					st.Label.Render(bar(d.Created, peak, 20)), d.Created)
			}

			c.println("")
			c.println(st.PanelTitle.Render("Priority distribution"))
			for _, share := range query.PriorityDistribution(tasks) {
				c.printf("  %-8s %s %d (%.1f%%)\n", share.Priority,
					lipgloss.NewStyle().Foreground(st.Theme.PriorityColor(share.Priority)).
						Render(bar(share.Count, len(tasks), 20)),
					share.Count, share.Percentage)
			}

			c.println("")
			c.printf("%s %d\n", st.Label.Render("Collaborative tasks"), query.CollaborativeCount(tasks))
			return nil
		},
	}
}

func (c *cli) calendarCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show a month of due dates",
		Long: `Show a six week calendar page with the number of tasks due each day.

Examples:
  taskhive calendar
  taskhive calendar --month 2026-12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			now := s.Now()
			year, mon := now.Year(), now.Month()
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid month %q: use YYYY-MM", month)
				}
				year, mon = t.Year(), t.Month()
			}

			tasks := s.Tasks()
			c.println(renderCalendar(c.styles(), query.MonthGrid(year, mon, tasks), now))

			sum := query.SummarizeMonth(year, mon, tasks, now)
			st := c.styles()
			c.printf("%s %d   %s %d   %s %d\n",
				st.Label.Render("Due this month"), sum.Due,
				st.Label.Render("Completed"), sum.Completed,
				st.Label.Render("Overdue"), sum.Overdue)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show (YYYY-MM)")
	return cmd
}

func renderCalendar(st theme.Styles, g query.Grid, now time.Time) string {
	var b strings.Builder
	b.WriteString(st.Header.Render(fmt.Sprintf("%s %d", g.Month, g.Year)))
	b.WriteString("\n")
	for _, d := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		b.WriteString(st.DayOutside.Render(d))
	}
	b.WriteString("\n")

	today := model.FormatDate(now)
	for _, week := range g.Weeks() {
		for _, cell := range week {
			label := fmt.Sprint(cell.Date.Day())
			if n := len(cell.Tasks); n > 0 {
				label = fmt.Sprintf("%d•%d", cell.Date.Day(), n)
			}
			style := st.DayInMonth
			switch {
			case !cell.InMonth:
				style = st.DayOutside
			case model.FormatDate(cell.Date) == today:
				style = st.DayToday
			case len(cell.Tasks) > 0:
				style = st.DayWithTask
			}
			b.WriteString(style.Render(label))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"home"},
		Short:   "Show today's overview",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			st := c.styles()
			now := s.Now()
			v := query.Dashboard(s.Tasks(), now)

			greeting := v.Greeting
			if u, ok := s.CurrentUser(); ok {
				greeting += ", " + u.FirstName()
			}
			c.println(st.Header.Render(greeting))
			c.println(st.Subtitle.Render(now.Format("Monday, January 2, 2006")))
			c.println("")

			a := s.Analytics()
			c.printf("%s %d   %s %d   %s %d   %s %.1f%%\n\n",
				st.Label.Render("Total"), a.TotalTasks,
				st.Label.Render("Completed"), a.TasksCompleted,
				st.Label.Render("Overdue"), a.TasksOverdue,
				st.Label.Render("Completion"), a.CompletionRate())

			section := func(title string, tasks []model.Task) {
				c.printf("%s %s\n", st.PanelTitle.Render(title), st.Label.Render(fmt.Sprintf("(%d)", len(tasks))))
				if len(tasks) == 0 {
					c.println(st.Label.Render("  nothing here"))
					return
				}
				for _, t := range tasks {
					line := fmt.Sprintf("  ○ %s", t.Title)
					if t.IsOverdue(now) {
						line = st.TaskOverdue.Render(line)
					}
					c.printf("%s  %s %s\n", line, st.Priority(t.Priority), st.DueDate.Render(t.DueDate))
				}
			}
			section("Due today", v.Today)
			section("Overdue", v.Overdue)
			section("Upcoming", v.Upcoming)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dori/taskhive/internal/config"
	"github.com/dori/taskhive/internal/export"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		format string
		dir    string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export analytics and tasks",
		Long: `Export the analytics summary, weekly progress and task list.

The file is named taskhive-analytics-YYYY-MM-DD.<format>.

Examples:
  taskhive export
  taskhive export --format yaml --dir ~/reports
  taskhive export --stdout | jq .summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			s := c.app.Store
			report := export.Build(s.Analytics(), s.Tasks())
			if stdout {
				return export.Write(c.out, report, f)
			}
			path, err := export.WriteFile(dir, s.Now(), report, f)
			if err != nil {
				return err
			}
			c.app.Log.Infow("exported analytics", "path", path, "format", f)
			c.printf("✓ Exported %d tasks to %s\n", len(report.Tasks), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().StringVarP(&dir, "dir", "o", ".", "Output directory")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write to stdout instead of a file")
	return cmd
}

func (c *cli) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			if len(args) == 1 {
				switch args[0] {
				case "light":
					s.SetDarkMode(false)
				case "dark":
					s.SetDarkMode(true)
				case "toggle":
					s.ToggleDarkMode()
				default:
					return fmt.Errorf("unknown theme %q: use light, dark or toggle", args[0])
				}
			}
			st := c.styles()
			c.printf("Theme: %s\n", st.Header.Render(st.Theme.Name))
			return nil
		},
	}
}

func (c *cli) remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send desktop reminders for tasks due today or overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Notifier.IsEnabled() {
				c.println("Notifications are disabled (set notifications: true in the config)")
				return nil
			}
			s := c.app.Store
			n, err := c.app.Notifier.SendDueReminders(s.Tasks(), s.Now())
			if err != nil {
				return fmt.Errorf("failed to send reminders: %w", err)
			}
			c.printf("✓ Sent %d reminder(s)\n", n)
			return nil
		},
	}
}

func (c *cli) configCmd() *cobra.Command {
	skip := map[string]string{"skipApp": "true"}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: skip,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(c.out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	path := &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: skip,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.configPath
			if p == "" {
				p = config.DefaultPath()
			}
			c.println(p)
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with default settings",
		Args:        cobra.NoArgs,
		Annotations: skip,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.configPath
			if p == "" {
				p = config.DefaultPath()
			}
			if err := config.DefaultConfig().Save(p); err != nil {
				return err
			}
			c.printf("✓ Wrote %s\n", p)
			return nil
		},
	}

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

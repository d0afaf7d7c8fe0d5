// Package cli implements the taskhive command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dori/taskhive/internal/app"
	"github.com/dori/taskhive/internal/config"
	"github.com/dori/taskhive/internal/logger"
	"github.com/dori/taskhive/internal/ui/theme"
)

var version = "0.1.0"

// cli carries flag values and the application opened by the pre-run hook
type cli struct {
	configPath string
	dataDir    string
	logLevel   string

	in  io.Reader
	out io.Writer

	cfg *config.Config
	log *logger.Logger
	app *app.App
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	c := &cli{in: os.Stdin, out: os.Stdout}
	defer c.close()
	return c.rootCmd().ExecuteContext(ctx)
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskhive",
		Short: "taskhive - task management from the terminal",
		Long: `taskhive keeps a local task list with priorities, due dates, assignees,
subtasks and comments, plus a dashboard, calendar and analytics.

Run 'taskhive dashboard' for an overview.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipApp"] == "true" {
				return nil
			}
			return c.open(cmd)
		},
	}
	root.SetOut(c.out)
	root.SetIn(c.in)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to config file")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "Data directory")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		c.listCmd(),
		c.addCmd(),
		c.editCmd(),
		c.doneCmd(),
		c.toggleCmd(),
		c.rmCmd(),
		c.showCmd(),
		c.commentCmd(),
		c.subtaskCmd(),
		c.usersCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.statsCmd(),
		c.calendarCmd(),
		c.dashboardCmd(),
		c.exportCmd(),
		c.themeCmd(),
		c.remindCmd(),
		c.configCmd(),
	)
	return root
}

// open loads config, starts the logger and opens the application
func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = c.dataDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.LogPath(),
		Console: cfg.Log.Console,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.log = log

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		c.log.Errorw("failed to start", "error", err)
		return err
	}
	c.app = a

	c.log.Infow("taskhive started", "command", cmd.Name())
	return nil
}

func (c *cli) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil {
			c.log.Warnw("failed to close application", "error", err)
		}
		c.app = nil
	}
	if c.log != nil {
		_ = c.log.Close()
	}
}

func (c *cli) styles() theme.Styles {
	return theme.NewStyles(theme.For(c.app.Store.Preferences().DarkMode))
}

func (c *cli) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *cli) println(s string) {
	fmt.Fprintln(c.out, s)
}

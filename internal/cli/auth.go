package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dori/taskhive/internal/store"
)

func (c *cli) loginCmd() *cobra.Command {
	var (
		email  string
		google bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in with an email and password, or with Google.

Any email with a password of at least six characters is accepted. The
session binds to the team member with that email, or to the default user.

Examples:
  taskhive login --email sarah@asimtask.com
  taskhive login --google`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.app.Store
			ctx := cmd.Context()

			var pending *store.PendingLogin
			if google {
				c.println("Signing in with Google...")
				pending = s.LoginWithGoogleAsync(ctx)
			} else {
				reader := bufio.NewReader(c.in)
				if email == "" {
					c.printf("Email: ")
					line, err := reader.ReadString('\n')
					if err != nil && !errors.Is(err, io.EOF) {
						return err
					}
					email = strings.TrimSpace(line)
				}
				password, err := c.readPassword(reader)
				if err != nil {
					return err
				}
				c.println("Signing in...")
				pending = s.LoginAsync(ctx, email, password)
			}

			ok, err := pending.Wait()
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("login failed: email is required and the password needs at least 6 characters")
			}
			u, _ := s.CurrentUser()
			c.printf("✓ Logged in as %s (%s)\n", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().BoolVar(&google, "google", false, "Sign in with Google")
	return cmd
}

// readPassword reads without echo from a terminal, or a plain line otherwise
func (c *cli) readPassword(reader *bufio.Reader) (string, error) {
	c.printf("Password: ")
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		c.println("")
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Store.IsAuthenticated() {
				c.println("Not logged in")
				return nil
			}
			c.app.Store.Logout()
			c.println("✓ Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := c.app.Store.CurrentUser()
			if !ok {
				c.println("Not logged in")
				return nil
			}
			st := c.styles()
			c.printf("%s %s\n", st.Header.Render(u.Name), st.Label.Render("<"+u.Email+">"))
			c.println(st.Tag.Render(u.Role))
			return nil
		},
	}
}

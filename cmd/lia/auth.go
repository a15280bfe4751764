package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/mapping-lia/internal/cli"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/token"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the mapping backend",
		Long: `Log in with your username and password. The session token is stored in
the local state database and used by every other command.`,
		RunE: runLogin,
	}

	cmd.Flags().StringP("username", "u", "", "username (prompted when empty)")
	cmd.Flags().Bool("password-stdin", false, "read the password from stdin")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.close()

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	username, _ := cmd.Flags().GetString("username")
	if username == "" {
		if username, err = prompt(in, out, "Username: "); err != nil {
			return err
		}
	}

	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	password, err := readPassword(in, out, fromStdin)
	if err != nil {
		return err
	}

	s, err := a.api.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintln(out, cli.FormatError(feedback.LoginMessage(err)))
		return err
	}
	if err := a.sessions.Login(ctx, s); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(feedback.LoginSucceeded))
	return nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo on a terminal and falls back to a plain
// line otherwise.
func readPassword(in *bufio.Reader, out io.Writer, fromStdin bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if fromStdin || !term.IsTerminal(fd) {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(out, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Logged out"))
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			st := a.sessions.State()
			if !st.IsAuthenticated {
				fmt.Fprintln(out, cli.FormatInfo("Not logged in"))
				return nil
			}

			raw, err := a.sessions.Token(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatInfo("Logged in as "+st.Username))
			fmt.Fprintln(out, describeToken(raw, time.Now()))
			return nil
		},
	}
}

func describeToken(raw string, now time.Time) string {
	exp, err := token.Expiration(raw)
	switch {
	case errors.Is(err, token.ErrNoExpiry):
		return cli.SubtleStyle.Render("Token has no expiration")
	case err != nil:
		return cli.FormatWarning("Stored token is malformed")
	case token.IsExpired(raw, now):
		return cli.FormatWarning("Token expired " + exp.Local().Format(time.DateTime))
	default:
		return cli.SubtleStyle.Render("Token expires " + exp.Local().Format(time.DateTime))
	}
}

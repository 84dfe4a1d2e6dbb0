package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the hospital backend",
		Long:  "Authenticate with email and password and keep the session for later commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(a.in)
			if email == "" {
				fmt.Fprint(a.out, "Email: ")
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read email: %w", err)
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Fprint(a.out, "Password: ")
				p, err := readPassword(reader)
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = p
			}

			res, err := a.client.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %s", hms.Message(err))
			}

			a.session.Login(cmd.Context(), *res)
			a.session.Wait()

			st := a.session.Snapshot()
			fmt.Fprintf(a.out, "Signed in as %s (%s)\n", st.FullName, st.Role)
			if st.Department != "" {
				fmt.Fprintf(a.out, "  Department: %s\n", st.Department)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

// readPassword reads without echo on a terminal, or a plain line otherwise.
func readPassword(reader *bufio.Reader) (string, error) {
	if stdinIsTerminal() {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Logout(cmd.Context())
			fmt.Fprintln(a.out, "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.session.Snapshot()
			if st.Department == "" {
				a.session.FetchDepartment(cmd.Context())
				st = a.session.Snapshot()
			}
			exp, hasExp := a.session.TokenExpiry()

			out := struct {
				UserID     int64    `json:"userId"`
				FullName   string   `json:"fullName"`
				Email      string   `json:"email"`
				Role       hms.Role `json:"role"`
				Department string   `json:"department,omitempty"`
				ExpiresAt  string   `json:"expiresAt,omitempty"`
			}{st.UserID, st.FullName, st.Email, st.Role, st.Department, ""}
			if hasExp {
				out.ExpiresAt = exp.Format(time.RFC3339)
			}

			return a.render(out, func(w io.Writer) {
				fmt.Fprintf(w, "User:\t%s (#%d)\n", st.FullName, st.UserID)
				fmt.Fprintf(w, "Email:\t%s\n", st.Email)
				fmt.Fprintf(w, "Role:\t%s\n", st.Role)
				fmt.Fprintf(w, "Department:\t%s\n", orDash(st.Department))
				if hasExp {
					state := "expires"
					if time.Now().After(exp) {
						state = "expired"
					}
					fmt.Fprintf(w, "Token:\t%s %s\n", state, humanize.Time(exp))
				}
			})
		},
	}
	return protect(a, cmd)
}

func newRefreshCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored refresh token for a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.session.Snapshot()
			if st.RefreshToken == "" {
				return fmt.Errorf("no refresh token stored: run `hmsctl login`")
			}
			res, err := a.client.Auth.Refresh(cmd.Context(), st.RefreshToken)
			if err != nil {
				if hms.IsUnauthorized(err) {
					return fmt.Errorf("refresh token rejected: run `hmsctl login`")
				}
				return fmt.Errorf("refresh: %w", err)
			}
			a.session.Login(cmd.Context(), *res)
			a.session.Wait()
			fmt.Fprintln(a.out, "Session refreshed.")
			return nil
		},
	}
	return protect(a, cmd)
}

package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/guard"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"staff"},
		Short:   "Manage staff accounts (administrators only)",
	}

	var role string
	list := &cobra.Command{
		Use:   "list",
		Short: "List staff, optionally by role",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				users []hms.User
				err   error
			)
			if role != "" {
				r, perr := hms.ParseRole(role)
				if perr != nil {
					return perr
				}
				users, err = a.client.Users.ByRole(cmd.Context(), r)
			} else {
				users, err = a.client.Users.List(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			return a.render(users, func(w io.Writer) { writeUsers(w, users) })
		},
	}
	list.Flags().StringVar(&role, "role", "", "Only staff with this role")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a staff account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			u, err := a.client.Users.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get user: %w", err)
			}
			return a.render(u, func(w io.Writer) { writeUsers(w, []hms.User{*u}) })
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.User
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			u, err := a.client.Users.Create(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			return a.render(u, func(w io.Writer) { writeUsers(w, []hms.User{*u}) })
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "User payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a staff account from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			var in hms.User
			if err := readPayload(updateFile, a.in, &in); err != nil {
				return err
			}
			u, err := a.client.Users.Update(cmd.Context(), id, &in)
			if err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			return a.render(u, func(w io.Writer) { writeUsers(w, []hms.User{*u}) })
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "", "User payload file ('-' for stdin)")
	update.MarkFlagRequired("file")

	deactivate := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a staff account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			if err := a.client.Users.Deactivate(cmd.Context(), id); err != nil {
				return fmt.Errorf("deactivate user: %w", err)
			}
			fmt.Fprintf(a.out, "User %d deactivated.\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, get, create, update, deactivate)
	protect(a, cmd, guard.Admins...)

	// Any signed-in operator may change their own password.
	cmd.AddCommand(protect(a, newPasswordCmd(a)))
	return cmd
}

func newPasswordCmd(a *app) *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your own password",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(a.in)
			if current == "" {
				fmt.Fprint(a.out, "Current password: ")
				p, err := readPassword(reader)
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				current = p
			}
			if next == "" {
				fmt.Fprint(a.out, "New password: ")
				p, err := readPassword(reader)
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				next = p
			}
			if err := a.client.Users.ChangePassword(cmd.Context(), a.userID(), current, next); err != nil {
				return fmt.Errorf("change password failed: %s", hms.Message(err))
			}
			fmt.Fprintln(a.out, "Password changed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "Current password (prompted if omitted)")
	cmd.Flags().StringVar(&next, "new", "", "New password (prompted if omitted)")
	return cmd
}

func writeUsers(w io.Writer, users []hms.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	row(w, "ID", "NAME", "EMAIL", "ROLE", "DEPARTMENT", "ACTIVE")
	for _, u := range users {
		row(w, u.ID, u.FullName, u.Email, u.Role, orDash(u.Department), yesNo(u.Active))
	}
}

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/notify"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Read your notifications",
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "List your notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Notifications.List(cmd.Context(), a.userID(), page)
			if err != nil {
				return fmt.Errorf("list notifications: %w", err)
			}
			return a.render(p, func(w io.Writer) {
				writeNotifications(w, p.Content)
				pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
			})
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")

	count := &cobra.Command{
		Use:   "count",
		Short: "Show your unread notification count",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.client.Notifications.UnreadCount(cmd.Context(), a.userID())
			if err != nil {
				return fmt.Errorf("unread count: %w", err)
			}
			return a.render(map[string]int64{"unread": n}, func(w io.Writer) {
				fmt.Fprintf(w, "%d unread\n", n)
			})
		},
	}

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("notification", args[0])
			if err != nil {
				return err
			}
			if err := a.client.Notifications.MarkRead(cmd.Context(), id); err != nil {
				return fmt.Errorf("mark read: %w", err)
			}
			fmt.Fprintf(a.out, "Notification %d marked read.\n", id)
			return nil
		},
	}

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark all your notifications read",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Notifications.MarkAllRead(cmd.Context(), a.userID()); err != nil {
				return fmt.Errorf("mark all read: %w", err)
			}
			fmt.Fprintln(a.out, "All notifications marked read.")
			return nil
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print the unread count whenever it changes until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := notify.NewPoller(a.client.Notifications, a.pollInterval(), a.logger)
			p.OnChange(func(n int64) {
				fmt.Fprintf(a.out, "%s  %d unread\n", time.Now().Format("15:04:05"), n)
			})
			p.Start(cmd.Context(), a.userID())
			<-cmd.Context().Done()
			p.Stop()
			return nil
		},
	}

	cmd.AddCommand(list, count, read, readAll, watch)
	return protect(a, cmd)
}

func writeNotifications(w io.Writer, ns []hms.Notification) {
	if len(ns) == 0 {
		fmt.Fprintln(w, "No notifications.")
		return
	}
	row(w, "ID", "", "TYPE", "TITLE", "MESSAGE", "WHEN")
	for _, n := range ns {
		mark := "*"
		if n.Read {
			mark = ""
		}
		row(w, n.ID, mark, orDash(n.Type), n.Title, n.Message, ago(n.CreatedAt))
	}
}

package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/guard"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

type dashboardView struct {
	Hospital    string         `json:"hospital"`
	Stats       *hms.Dashboard `json:"stats"`
	Unread      int64          `json:"unreadNotifications"`
	QueueLength *int           `json:"queueLength,omitempty"`
}

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show today's hospital summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.session.Snapshot()
			view := dashboardView{Hospital: a.profile.Get().Name}

			// The summary, the badge count and the clinician queue are
			// independent; fetch them together.
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				d, err := a.client.Dashboard.Get(ctx)
				if err != nil {
					return fmt.Errorf("get dashboard: %w", err)
				}
				view.Stats = d
				return nil
			})
			g.Go(func() error {
				n, err := a.client.Notifications.UnreadCount(ctx, st.UserID)
				if err != nil {
					a.logger.Debug("unread count unavailable", "error", err)
					return nil
				}
				view.Unread = n
				return nil
			})
			if guard.Check(st, guard.Clinicians...).Allowed() {
				g.Go(func() error {
					q, err := a.client.Visits.DoctorQueue(ctx, st.UserID)
					if err != nil {
						a.logger.Debug("queue unavailable", "error", err)
						return nil
					}
					n := len(q)
					view.QueueLength = &n
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			return a.render(view, func(w io.Writer) {
				d := view.Stats
				fmt.Fprintf(w, "%s\n\n", view.Hospital)
				row(w, "Patients today:", d.PatientsToday)
				row(w, "Total patients:", d.TotalPatients)
				row(w, "Appointments today:", d.AppointmentsToday)
				row(w, "Visits today:", d.VisitsToday)
				row(w, "Revenue today:", money(d.RevenueToday))
				row(w, "Revenue this month:", money(d.RevenueThisMonth))
				row(w, "Pending lab orders:", d.PendingLabOrders)
				row(w, "Pending bills:", d.PendingBills)
				row(w, "Beds:", fmt.Sprintf("%d occupied, %d available of %d (%.1f%%)",
					d.OccupiedBeds, d.AvailableBeds, d.TotalBeds, d.BedOccupancyRate))
				row(w, "Unread notifications:", view.Unread)
				if view.QueueLength != nil {
					row(w, "Patients in my queue:", *view.QueueLength)
				}

				if len(d.DepartmentVisits) > 0 {
					fmt.Fprintln(w, "\nVisits by department:")
					depts := make([]string, 0, len(d.DepartmentVisits))
					for k := range d.DepartmentVisits {
						depts = append(depts, k)
					}
					sort.Strings(depts)
					for _, k := range depts {
						row(w, "  "+k, d.DepartmentVisits[k])
					}
				}
				if len(d.LowStockDrugs) > 0 {
					fmt.Fprintln(w, "\nLow stock:")
					for _, drug := range d.LowStockDrugs {
						row(w, "  "+drug.GenericName, fmt.Sprintf("%d left (reorder at %d)", drug.QuantityInStock, drug.ReorderLevel))
					}
				}
			})
		},
	}
	return protect(a, cmd)
}

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/guard"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newVisitsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "visits",
		Aliases: []string{"visit"},
		Short:   "Open, record and complete clinical visits",
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "List visits",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Visits.List(cmd.Context(), page)
			if err != nil {
				return fmt.Errorf("list visits: %w", err)
			}
			return a.renderVisits(p)
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a visit with its prescriptions and orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("visit", args[0])
			if err != nil {
				return err
			}
			v, err := a.client.Visits.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get visit: %w", err)
			}
			return a.renderVisit(v)
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a visit from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Visit
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			v, err := a.client.Visits.Create(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("open visit: %w", err)
			}
			return a.renderVisit(v)
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Visit payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Record vitals, findings and diagnosis from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("visit", args[0])
			if err != nil {
				return err
			}
			var in hms.Visit
			if err := readPayload(updateFile, a.in, &in); err != nil {
				return err
			}
			v, err := a.client.Visits.Update(cmd.Context(), id, &in)
			if err != nil {
				return fmt.Errorf("update visit: %w", err)
			}
			return a.renderVisit(v)
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "", "Visit payload file ('-' for stdin)")
	update.MarkFlagRequired("file")

	complete := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a visit completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("visit", args[0])
			if err != nil {
				return err
			}
			v, err := a.client.Visits.Complete(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("complete visit: %w", err)
			}
			fmt.Fprintf(a.out, "Visit %d completed for %s.\n", v.ID, v.PatientName)
			return nil
		},
	}

	cmd.AddCommand(list, get, create, update, complete)
	return protect(a, cmd)
}

func (a *app) renderVisits(p *hms.Page[hms.Visit]) error {
	return a.render(p, func(w io.Writer) {
		if len(p.Content) == 0 {
			fmt.Fprintln(w, "No visits found.")
			return
		}
		row(w, "ID", "PATIENT", "TYPE", "DOCTOR", "COMPLAINT", "STATUS", "OPENED")
		for _, v := range p.Content {
			row(w, v.ID, fmt.Sprintf("%s (%s)", v.PatientName, v.PatientNo), orDash(string(v.VisitType)),
				orDash(v.DoctorName), orDash(v.ChiefComplaint), visitStatus(v), orDash(v.CreatedAt))
		}
		pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
	})
}

func visitStatus(v hms.Visit) string {
	if v.Completed {
		return "COMPLETED"
	}
	return "OPEN"
}

func (a *app) renderVisit(v *hms.Visit) error {
	return a.render(v, func(w io.Writer) {
		row(w, "Visit:", v.ID)
		row(w, "Patient:", fmt.Sprintf("%s (%s)", v.PatientName, v.PatientNo))
		row(w, "Type:", orDash(string(v.VisitType)))
		row(w, "Doctor:", orDash(v.DoctorName))
		row(w, "Status:", visitStatus(*v))
		row(w, "Complaint:", orDash(v.ChiefComplaint))
		if vitals := formatVitals(v); vitals != "" {
			row(w, "Vitals:", vitals)
		}
		row(w, "Diagnosis:", orDash(v.Diagnosis))
		if v.TreatmentPlan != "" {
			row(w, "Plan:", v.TreatmentPlan)
		}
		for _, p := range v.Prescriptions {
			row(w, "Rx:", fmt.Sprintf("%s %s %s for %s (dispensed: %s)", p.DrugName, p.Dosage, p.Frequency, p.Duration, yesNo(p.Dispensed)))
		}
		for _, o := range v.LabOrders {
			row(w, "Lab:", fmt.Sprintf("#%d %s [%s]", o.ID, o.TestName, o.Status))
		}
		for _, o := range v.ImagingOrders {
			row(w, "Imaging:", fmt.Sprintf("#%d %s %s [%s]", o.ID, o.ImagingType, o.BodyPart, o.Status))
		}
	})
}

func formatVitals(v *hms.Visit) string {
	s := ""
	add := func(format string, args ...any) {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf(format, args...)
	}
	if v.BloodPressure != "" {
		add("BP %s", v.BloodPressure)
	}
	if v.Temperature != nil {
		add("T %.1f°C", *v.Temperature)
	}
	if v.PulseRate != nil {
		add("HR %d", *v.PulseRate)
	}
	if v.RespiratoryRate != nil {
		add("RR %d", *v.RespiratoryRate)
	}
	if v.OxygenSaturation != nil {
		add("SpO2 %.0f%%", *v.OxygenSaturation)
	}
	if v.Weight != nil {
		add("%.1f kg", *v.Weight)
	}
	return s
}

func newQueueCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the patients waiting for you",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				return a.showQueue(cmd.Context())
			}

			ticker := time.NewTicker(a.pollInterval())
			defer ticker.Stop()
			for {
				if err := a.showQueue(cmd.Context()); err != nil {
					a.logger.Warn("queue refresh failed", "error", err)
				}
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh on the poll interval until interrupted")
	return protect(a, cmd, guard.Clinicians...)
}

func (a *app) showQueue(ctx context.Context) error {
	q, err := a.client.Visits.DoctorQueue(ctx, a.userID())
	if err != nil {
		return fmt.Errorf("get queue: %w", err)
	}
	now := time.Now()
	return a.render(q, func(w io.Writer) {
		plural := "s"
		if len(q) == 1 {
			plural = ""
		}
		fmt.Fprintf(w, "%d patient%s waiting\n", len(q), plural)
		if len(q) == 0 {
			return
		}
		fmt.Fprintln(w)
		row(w, "VISIT", "PATIENT", "TYPE", "COMPLAINT", "WAITING")
		for _, v := range q {
			row(w, v.ID, fmt.Sprintf("%s (%s)", v.PatientName, v.PatientNo), orDash(string(v.VisitType)),
				orDash(v.ChiefComplaint), waitTime(v.CreatedAt, now))
		}
	})
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newAppointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "Book and track appointments",
	}

	var page int
	var date string
	list := &cobra.Command{
		Use:   "list",
		Short: "List appointments, optionally for one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				p   *hms.Page[hms.Appointment]
				err error
			)
			if date != "" {
				p, err = a.client.Appointments.ListByDate(cmd.Context(), date, page)
			} else {
				p, err = a.client.Appointments.List(cmd.Context(), page)
			}
			if err != nil {
				return fmt.Errorf("list appointments: %w", err)
			}
			return a.render(p, func(w io.Writer) {
				writeAppointments(w, p.Content)
				pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
			})
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")
	list.Flags().StringVar(&date, "date", "", "Only this date (YYYY-MM-DD)")

	var doctorDate string
	doctor := &cobra.Command{
		Use:   "doctor <doctor-id>",
		Short: "List a doctor's appointments for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("doctor", args[0])
			if err != nil {
				return err
			}
			appts, err := a.client.Appointments.DoctorAppointments(cmd.Context(), id, doctorDate)
			if err != nil {
				return fmt.Errorf("list doctor appointments: %w", err)
			}
			return a.render(appts, func(w io.Writer) { writeAppointments(w, appts) })
		},
	}
	doctor.Flags().StringVar(&doctorDate, "date", "", "Date (YYYY-MM-DD)")
	doctor.MarkFlagRequired("date")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("appointment", args[0])
			if err != nil {
				return err
			}
			appt, err := a.client.Appointments.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get appointment: %w", err)
			}
			return a.render(appt, func(w io.Writer) { writeAppointments(w, []hms.Appointment{*appt}) })
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Book an appointment from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Appointment
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			appt, err := a.client.Appointments.Create(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("book appointment: %w", err)
			}
			return a.render(appt, func(w io.Writer) { writeAppointments(w, []hms.Appointment{*appt}) })
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Appointment payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an appointment to SCHEDULED, CHECKED_IN, IN_PROGRESS, COMPLETED, CANCELLED or NO_SHOW",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("appointment", args[0])
			if err != nil {
				return err
			}
			st := hms.AppointmentStatus(strings.ToUpper(strings.ReplaceAll(args[1], "-", "_")))
			appt, err := a.client.Appointments.UpdateStatus(cmd.Context(), id, st)
			if err != nil {
				return fmt.Errorf("update appointment status: %w", err)
			}
			fmt.Fprintf(a.out, "Appointment %d is now %s.\n", appt.ID, appt.Status)
			return nil
		},
	}

	cmd.AddCommand(list, doctor, get, create, status)
	return protect(a, cmd)
}

func writeAppointments(w io.Writer, appts []hms.Appointment) {
	if len(appts) == 0 {
		fmt.Fprintln(w, "No appointments found.")
		return
	}
	row(w, "ID", "DATE", "TIME", "PATIENT", "DOCTOR", "DEPARTMENT", "TYPE", "STATUS")
	for _, ap := range appts {
		kind := orDash(string(ap.AppointmentType))
		if ap.WalkIn {
			kind += " (walk-in)"
		}
		row(w, ap.ID, ap.AppointmentDate, orDash(ap.AppointmentTime), ap.PatientName, orDash(ap.DoctorName),
			orDash(ap.Department), kind, ap.Status)
	}
}

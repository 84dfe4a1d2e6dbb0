package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newWardsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wards",
		Aliases: []string{"ward"},
		Short:   "Wards, beds, admissions and nursing notes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List wards with bed occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			wards, err := a.client.Wards.Wards(cmd.Context())
			if err != nil {
				return fmt.Errorf("list wards: %w", err)
			}
			return a.render(wards, func(w io.Writer) {
				if len(wards) == 0 {
					fmt.Fprintln(w, "No wards found.")
					return
				}
				row(w, "ID", "NAME", "TYPE", "BEDS", "OCCUPIED", "AVAILABLE")
				for _, wd := range wards {
					row(w, wd.ID, wd.Name, orDash(wd.Type), wd.TotalBeds, wd.OccupiedBeds, wd.AvailableBeds)
				}
			})
		},
	}

	var wardFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a ward from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Ward
			if err := readPayload(wardFile, a.in, &in); err != nil {
				return err
			}
			wd, err := a.client.Wards.CreateWard(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("add ward: %w", err)
			}
			fmt.Fprintf(a.out, "Ward %d (%s) created.\n", wd.ID, wd.Name)
			return nil
		},
	}
	create.Flags().StringVarP(&wardFile, "file", "f", "", "Ward payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a ward from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("ward", args[0])
			if err != nil {
				return err
			}
			var in hms.Ward
			if err := readPayload(updateFile, a.in, &in); err != nil {
				return err
			}
			wd, err := a.client.Wards.UpdateWard(cmd.Context(), id, &in)
			if err != nil {
				return fmt.Errorf("update ward: %w", err)
			}
			fmt.Fprintf(a.out, "Ward %d (%s) updated.\n", wd.ID, wd.Name)
			return nil
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "", "Ward payload file ('-' for stdin)")
	update.MarkFlagRequired("file")

	rooms := &cobra.Command{
		Use:   "rooms <ward-id>",
		Short: "List a ward's rooms and beds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("ward", args[0])
			if err != nil {
				return err
			}
			rs, err := a.client.Wards.Rooms(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("list rooms: %w", err)
			}
			return a.render(rs, func(w io.Writer) {
				if len(rs) == 0 {
					fmt.Fprintln(w, "No rooms found.")
					return
				}
				row(w, "ROOM", "TYPE", "BED", "STATUS", "DAILY CHARGE")
				for _, r := range rs {
					if len(r.Beds) == 0 {
						row(w, r.RoomNumber, orDash(r.Type), "-", "-", "-")
					}
					for _, b := range r.Beds {
						row(w, r.RoomNumber, orDash(r.Type), b.BedNumber, b.Status, money(b.DailyCharge))
					}
				}
			})
		},
	}

	var roomFile string
	addRoom := &cobra.Command{
		Use:   "add-room",
		Short: "Add a room from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Room
			if err := readPayload(roomFile, a.in, &in); err != nil {
				return err
			}
			r, err := a.client.Wards.CreateRoom(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("add room: %w", err)
			}
			fmt.Fprintf(a.out, "Room %s created (#%d).\n", r.RoomNumber, r.ID)
			return nil
		},
	}
	addRoom.Flags().StringVarP(&roomFile, "file", "f", "", "Room payload file ('-' for stdin)")
	addRoom.MarkFlagRequired("file")

	var bedFile string
	addBed := &cobra.Command{
		Use:   "add-bed",
		Short: "Add a bed from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Bed
			if err := readPayload(bedFile, a.in, &in); err != nil {
				return err
			}
			b, err := a.client.Wards.CreateBed(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("add bed: %w", err)
			}
			fmt.Fprintf(a.out, "Bed %s created (#%d).\n", b.BedNumber, b.ID)
			return nil
		},
	}
	addBed.Flags().StringVarP(&bedFile, "file", "f", "", "Bed payload file ('-' for stdin)")
	addBed.MarkFlagRequired("file")

	beds := &cobra.Command{
		Use:   "beds",
		Short: "List available beds",
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := a.client.Wards.AvailableBeds(cmd.Context())
			if err != nil {
				return fmt.Errorf("list available beds: %w", err)
			}
			return a.render(bs, func(w io.Writer) {
				if len(bs) == 0 {
					fmt.Fprintln(w, "No beds available.")
					return
				}
				row(w, "ID", "WARD", "ROOM", "BED", "DAILY CHARGE")
				for _, b := range bs {
					row(w, b.ID, b.WardName, b.RoomNumber, b.BedNumber, money(b.DailyCharge))
				}
			})
		},
	}

	cmd.AddCommand(list, create, update, rooms, addRoom, addBed, beds, newAdmissionsCmd(a))
	return protect(a, cmd)
}

func newAdmissionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "admissions",
		Aliases: []string{"adm"},
		Short:   "Admit, discharge and chart inpatients",
	}

	var page int
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List admissions by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Wards.Admissions(cmd.Context(), hms.AdmissionStatus(strings.ToUpper(status)), page)
			if err != nil {
				return fmt.Errorf("list admissions: %w", err)
			}
			return a.render(p, func(w io.Writer) {
				writeAdmissions(w, p.Content)
				pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
			})
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")
	list.Flags().StringVar(&status, "status", string(hms.AdmissionAdmitted), "Admission status (ADMITTED, DISCHARGED, TRANSFERRED, DECEASED)")

	var admitFile string
	admit := &cobra.Command{
		Use:   "admit",
		Short: "Admit a patient from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Admission
			if err := readPayload(admitFile, a.in, &in); err != nil {
				return err
			}
			adm, err := a.client.Wards.Admit(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("admit patient: %w", err)
			}
			return a.render(adm, func(w io.Writer) { writeAdmissions(w, []hms.Admission{*adm}) })
		},
	}
	admit.Flags().StringVarP(&admitFile, "file", "f", "", "Admission payload file ('-' for stdin)")
	admit.MarkFlagRequired("file")

	var summary string
	discharge := &cobra.Command{
		Use:   "discharge <id>",
		Short: "Discharge an inpatient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("admission", args[0])
			if err != nil {
				return err
			}
			adm, err := a.client.Wards.Discharge(cmd.Context(), id, summary)
			if err != nil {
				return fmt.Errorf("discharge: %w", err)
			}
			fmt.Fprintf(a.out, "%s discharged from %s.\n", adm.PatientName, adm.WardName)
			return nil
		},
	}
	discharge.Flags().StringVar(&summary, "summary", "", "Discharge summary")
	discharge.MarkFlagRequired("summary")

	notes := &cobra.Command{
		Use:   "notes <id>",
		Short: "List nursing notes for an admission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("admission", args[0])
			if err != nil {
				return err
			}
			ns, err := a.client.Wards.NursingNotes(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("list nursing notes: %w", err)
			}
			return a.render(ns, func(w io.Writer) {
				if len(ns) == 0 {
					fmt.Fprintln(w, "No nursing notes.")
					return
				}
				row(w, "WHEN", "NURSE", "VITALS", "NOTES")
				for _, n := range ns {
					row(w, ago(n.CreatedAt), orDash(n.NurseName), orDash(n.VitalSigns), n.Notes)
				}
			})
		},
	}

	var noteText, vitals string
	addNote := &cobra.Command{
		Use:   "add-note <id>",
		Short: "Chart a nursing note as the signed-in nurse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("admission", args[0])
			if err != nil {
				return err
			}
			n, err := a.client.Wards.AddNursingNote(cmd.Context(), &hms.NursingNote{
				AdmissionID: id,
				NurseID:     a.userID(),
				Notes:       noteText,
				VitalSigns:  vitals,
			})
			if err != nil {
				return fmt.Errorf("add nursing note: %w", err)
			}
			fmt.Fprintf(a.out, "Note %d added.\n", n.ID)
			return nil
		},
	}
	addNote.Flags().StringVar(&noteText, "notes", "", "Note text")
	addNote.Flags().StringVar(&vitals, "vitals", "", "Vital signs")
	addNote.MarkFlagRequired("notes")

	cmd.AddCommand(list, admit, discharge, notes, addNote)
	return cmd
}

func writeAdmissions(w io.Writer, adms []hms.Admission) {
	if len(adms) == 0 {
		fmt.Fprintln(w, "No admissions found.")
		return
	}
	row(w, "ID", "PATIENT", "WARD", "ROOM", "BED", "DOCTOR", "STATUS", "ADMITTED")
	for _, ad := range adms {
		row(w, ad.ID, fmt.Sprintf("%s (%s)", ad.PatientName, ad.PatientNo), ad.WardName, orDash(ad.RoomNumber),
			ad.BedNumber, orDash(ad.AdmittingDoctorName), ad.Status, ago(ad.AdmittedAt))
	}
}

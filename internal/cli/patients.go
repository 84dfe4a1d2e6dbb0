package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newPatientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patients",
		Aliases: []string{"patient"},
		Short:   "Register and look up patients",
	}

	var page, size int
	list := &cobra.Command{
		Use:   "list",
		Short: "List registered patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Patients.List(cmd.Context(), page, size)
			if err != nil {
				return fmt.Errorf("list patients: %w", err)
			}
			return a.renderPatients(p)
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")
	list.Flags().IntVar(&size, "size", hms.DefaultPageSize, "Page size")

	var searchPage int
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search patients by name, number, phone or id number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Patients.Search(cmd.Context(), args[0], searchPage)
			if err != nil {
				return fmt.Errorf("search patients: %w", err)
			}
			return a.renderPatients(p)
		},
	}
	search.Flags().IntVar(&searchPage, "page", 0, "Page number (zero-based)")

	var byNumber bool
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				p   *hms.Patient
				err error
			)
			if byNumber {
				p, err = a.client.Patients.GetByNumber(cmd.Context(), args[0])
			} else {
				id, perr := parseID("patient", args[0])
				if perr != nil {
					return perr
				}
				p, err = a.client.Patients.Get(cmd.Context(), id)
			}
			if err != nil {
				return fmt.Errorf("get patient: %w", err)
			}
			return a.renderPatient(p)
		},
	}
	get.Flags().BoolVar(&byNumber, "number", false, "Treat the argument as a patient number (e.g. HMS-2024-00001)")

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a patient from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Patient
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			p, err := a.client.Patients.Create(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("register patient: %w", err)
			}
			return a.renderPatient(p)
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Patient payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a patient from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("patient", args[0])
			if err != nil {
				return err
			}
			var in hms.Patient
			if err := readPayload(updateFile, a.in, &in); err != nil {
				return err
			}
			p, err := a.client.Patients.Update(cmd.Context(), id, &in)
			if err != nil {
				return fmt.Errorf("update patient: %w", err)
			}
			return a.renderPatient(p)
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "", "Patient payload file ('-' for stdin)")
	update.MarkFlagRequired("file")

	var billsPage int
	bills := &cobra.Command{
		Use:   "bills <id>",
		Short: "List a patient's invoices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("patient", args[0])
			if err != nil {
				return err
			}
			p, err := a.client.Billing.ByPatient(cmd.Context(), id, billsPage)
			if err != nil {
				return fmt.Errorf("list patient invoices: %w", err)
			}
			return a.renderInvoices(p)
		},
	}
	bills.Flags().IntVar(&billsPage, "page", 0, "Page number (zero-based)")

	var visitsPage int
	visits := &cobra.Command{
		Use:   "visits <id>",
		Short: "List a patient's visits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("patient", args[0])
			if err != nil {
				return err
			}
			p, err := a.client.Visits.ListByPatient(cmd.Context(), id, visitsPage)
			if err != nil {
				return fmt.Errorf("list patient visits: %w", err)
			}
			return a.renderVisits(p)
		},
	}
	visits.Flags().IntVar(&visitsPage, "page", 0, "Page number (zero-based)")

	cmd.AddCommand(list, search, get, create, update, bills, visits)
	return protect(a, cmd)
}

func (a *app) renderPatients(p *hms.Page[hms.Patient]) error {
	return a.render(p, func(w io.Writer) {
		if len(p.Content) == 0 {
			fmt.Fprintln(w, "No patients found.")
			return
		}
		row(w, "ID", "NUMBER", "NAME", "GENDER", "BORN", "PHONE", "INSURANCE")
		for _, pt := range p.Content {
			row(w, pt.ID, pt.PatientNo, pt.FullName, orDash(string(pt.Gender)), orDash(pt.DateOfBirth),
				orDash(pt.Phone), orDash(pt.InsuranceCompanyName))
		}
		pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
	})
}

func (a *app) renderPatient(p *hms.Patient) error {
	return a.render(p, func(w io.Writer) {
		row(w, "Patient:", fmt.Sprintf("%s (%s)", p.FullName, p.PatientNo))
		row(w, "ID:", p.ID)
		row(w, "Gender:", orDash(string(p.Gender)))
		row(w, "Date of birth:", orDash(p.DateOfBirth))
		row(w, "Phone:", orDash(p.Phone))
		row(w, "Email:", orDash(p.Email))
		row(w, "ID number:", orDash(p.IDNumber))
		row(w, "Address:", orDash(p.Address))
		row(w, "Blood group:", orDash(p.BloodGroup))
		row(w, "Allergies:", orDash(p.Allergies))
		if p.NextOfKinName != "" {
			row(w, "Next of kin:", fmt.Sprintf("%s (%s) %s", p.NextOfKinName, orDash(p.NextOfKinRelationship), p.NextOfKinPhone))
		}
		if p.InsuranceCompanyName != "" {
			row(w, "Insurance:", fmt.Sprintf("%s, member %s", p.InsuranceCompanyName, orDash(p.InsuranceMemberNumber)))
		}
	})
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newInsuranceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insurance",
		Short: "Insurance companies and claims",
	}
	cmd.AddCommand(newInsurersCmd(a), newClaimsCmd(a))
	return protect(a, cmd)
}

func newInsurersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"insurers"},
		Short:   "Manage insurance companies",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List insurance companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.client.Insurance.Companies(cmd.Context())
			if err != nil {
				return fmt.Errorf("list insurance companies: %w", err)
			}
			return a.render(cs, func(w io.Writer) { writeInsurers(w, cs) })
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add an insurance company from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.InsuranceCompany
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			c, err := a.client.Insurance.CreateCompany(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("add insurance company: %w", err)
			}
			return a.render(c, func(w io.Writer) { writeInsurers(w, []hms.InsuranceCompany{*c}) })
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Company payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an insurance company from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("insurance company", args[0])
			if err != nil {
				return err
			}
			var in hms.InsuranceCompany
			if err := readPayload(updateFile, a.in, &in); err != nil {
				return err
			}
			c, err := a.client.Insurance.UpdateCompany(cmd.Context(), id, &in)
			if err != nil {
				return fmt.Errorf("update insurance company: %w", err)
			}
			return a.render(c, func(w io.Writer) { writeInsurers(w, []hms.InsuranceCompany{*c}) })
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "", "Company payload file ('-' for stdin)")
	update.MarkFlagRequired("file")

	cmd.AddCommand(list, create, update)
	return cmd
}

func writeInsurers(w io.Writer, cs []hms.InsuranceCompany) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "No insurance companies found.")
		return
	}
	row(w, "ID", "NAME", "CONTACT", "PHONE", "EMAIL", "ACTIVE")
	for _, c := range cs {
		row(w, c.ID, c.Name, orDash(c.ContactPerson), orDash(c.Phone), orDash(c.Email), yesNo(c.Active))
	}
}

func newClaimsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "Submit and adjudicate insurance claims",
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "List claims",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Insurance.Claims(cmd.Context(), page)
			if err != nil {
				return fmt.Errorf("list claims: %w", err)
			}
			return a.render(p, func(w io.Writer) {
				writeClaims(w, p.Content)
				pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
			})
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Submit a claim from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.InsuranceClaim
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			c, err := a.client.Insurance.CreateClaim(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("submit claim: %w", err)
			}
			return a.render(c, func(w io.Writer) { writeClaims(w, []hms.InsuranceClaim{*c}) })
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Claim payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var approved float64
	var remarks string
	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a claim to a new status",
		Long: "Move a claim to one of: " + claimStatusList() + ".\n" +
			"--approved-amount is sent only for APPROVED and PARTIALLY_APPROVED.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("claim", args[0])
			if err != nil {
				return err
			}
			update := &hms.ClaimStatusUpdate{
				Status:  hms.ClaimStatus(strings.ToUpper(strings.ReplaceAll(args[1], "-", "_"))),
				Remarks: remarks,
			}
			if cmd.Flags().Changed("approved-amount") {
				if update.Status.NeedsApprovedAmount() {
					update.ApprovedAmount = &approved
				} else {
					a.logger.Warn("ignoring approved amount", "status", update.Status)
				}
			}
			c, err := a.client.Insurance.UpdateClaimStatus(cmd.Context(), id, update)
			if err != nil {
				return fmt.Errorf("update claim status: %w", err)
			}
			fmt.Fprintf(a.out, "Claim %s is now %s.\n", c.ClaimNumber, c.Status)
			return nil
		},
	}
	status.Flags().Float64Var(&approved, "approved-amount", 0, "Amount approved by the insurer")
	status.Flags().StringVar(&remarks, "remarks", "", "Remarks")

	cmd.AddCommand(list, create, status)
	return cmd
}

func claimStatusList() string {
	names := make([]string, len(hms.ClaimStatuses))
	for i, s := range hms.ClaimStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func writeClaims(w io.Writer, claims []hms.InsuranceClaim) {
	if len(claims) == 0 {
		fmt.Fprintln(w, "No claims found.")
		return
	}
	row(w, "ID", "CLAIM", "INVOICE", "INSURER", "PATIENT", "CLAIMED", "APPROVED", "STATUS")
	for _, c := range claims {
		row(w, c.ID, c.ClaimNumber, orDash(c.InvoiceNumber), c.InsuranceCompanyName, c.PatientName,
			money(c.ClaimAmount), money(c.ApprovedAmount), c.Status)
	}
}

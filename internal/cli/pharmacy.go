package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newPharmacyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pharmacy",
		Short: "Drug inventory and prescriptions",
	}
	cmd.AddCommand(newDrugsCmd(a), newPrescriptionsCmd(a))
	return protect(a, cmd)
}

func newDrugsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drugs",
		Short: "Manage the drug inventory",
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "List drugs",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Pharmacy.Drugs(cmd.Context(), page)
			if err != nil {
				return fmt.Errorf("list drugs: %w", err)
			}
			return a.render(p, func(w io.Writer) {
				writeDrugs(w, p.Content)
				pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
			})
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")

	var searchPage int
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search drugs by generic or brand name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Pharmacy.SearchDrugs(cmd.Context(), args[0], searchPage)
			if err != nil {
				return fmt.Errorf("search drugs: %w", err)
			}
			return a.render(p, func(w io.Writer) {
				writeDrugs(w, p.Content)
				pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
			})
		},
	}
	search.Flags().IntVar(&searchPage, "page", 0, "Page number (zero-based)")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a drug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("drug", args[0])
			if err != nil {
				return err
			}
			d, err := a.client.Pharmacy.Drug(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get drug: %w", err)
			}
			return a.render(d, func(w io.Writer) { writeDrugs(w, []hms.Drug{*d}) })
		},
	}

	lowStock := &cobra.Command{
		Use:   "low-stock",
		Short: "List drugs at or below their reorder level",
		RunE: func(cmd *cobra.Command, args []string) error {
			drugs, err := a.client.Pharmacy.LowStock(cmd.Context())
			if err != nil {
				return fmt.Errorf("list low stock: %w", err)
			}
			return a.render(drugs, func(w io.Writer) { writeDrugs(w, drugs) })
		},
	}

	expiring := &cobra.Command{
		Use:   "expiring",
		Short: "List drugs nearing expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			drugs, err := a.client.Pharmacy.Expiring(cmd.Context())
			if err != nil {
				return fmt.Errorf("list expiring drugs: %w", err)
			}
			return a.render(drugs, func(w io.Writer) { writeDrugs(w, drugs) })
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a drug from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Drug
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			d, err := a.client.Pharmacy.CreateDrug(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("add drug: %w", err)
			}
			return a.render(d, func(w io.Writer) { writeDrugs(w, []hms.Drug{*d}) })
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Drug payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a drug from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("drug", args[0])
			if err != nil {
				return err
			}
			var in hms.Drug
			if err := readPayload(updateFile, a.in, &in); err != nil {
				return err
			}
			d, err := a.client.Pharmacy.UpdateDrug(cmd.Context(), id, &in)
			if err != nil {
				return fmt.Errorf("update drug: %w", err)
			}
			return a.render(d, func(w io.Writer) { writeDrugs(w, []hms.Drug{*d}) })
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "", "Drug payload file ('-' for stdin)")
	update.MarkFlagRequired("file")

	cmd.AddCommand(list, search, get, lowStock, expiring, create, update)
	return cmd
}

func writeDrugs(w io.Writer, drugs []hms.Drug) {
	if len(drugs) == 0 {
		fmt.Fprintln(w, "No drugs found.")
		return
	}
	row(w, "ID", "GENERIC", "BRAND", "FORM", "STRENGTH", "STOCK", "EXPIRES", "PRICE")
	for _, d := range drugs {
		stock := fmt.Sprintf("%d", d.QuantityInStock)
		if d.LowStock() {
			stock += " LOW"
		}
		row(w, d.ID, d.GenericName, orDash(d.BrandName), orDash(d.Formulation), orDash(d.Strength),
			stock, orDash(d.ExpiryDate), money(d.SellingPrice))
	}
}

func newPrescriptionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prescriptions",
		Aliases: []string{"rx"},
		Short:   "Write and dispense prescriptions",
	}

	pending := &cobra.Command{
		Use:   "pending",
		Short: "List prescriptions awaiting dispensing",
		RunE: func(cmd *cobra.Command, args []string) error {
			rx, err := a.client.Pharmacy.PendingPrescriptions(cmd.Context())
			if err != nil {
				return fmt.Errorf("list pending prescriptions: %w", err)
			}
			return a.render(rx, func(w io.Writer) { writePrescriptions(w, rx) })
		},
	}

	visit := &cobra.Command{
		Use:   "visit <visit-id>",
		Short: "List a visit's prescriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("visit", args[0])
			if err != nil {
				return err
			}
			rx, err := a.client.Pharmacy.VisitPrescriptions(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("list visit prescriptions: %w", err)
			}
			return a.render(rx, func(w io.Writer) { writePrescriptions(w, rx) })
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Write a prescription from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Prescription
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			p, err := a.client.Pharmacy.CreatePrescription(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("write prescription: %w", err)
			}
			return a.render(p, func(w io.Writer) { writePrescriptions(w, []hms.Prescription{*p}) })
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Prescription payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	dispense := &cobra.Command{
		Use:   "dispense <id>",
		Short: "Dispense a prescription as the signed-in pharmacist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("prescription", args[0])
			if err != nil {
				return err
			}
			p, err := a.client.Pharmacy.Dispense(cmd.Context(), id, a.userID())
			if err != nil {
				return fmt.Errorf("dispense: %w", err)
			}
			fmt.Fprintf(a.out, "Dispensed %d x %s.\n", p.QuantityPrescribed, p.DrugName)
			return nil
		},
	}

	cmd.AddCommand(pending, visit, create, dispense)
	return cmd
}

func writePrescriptions(w io.Writer, rx []hms.Prescription) {
	if len(rx) == 0 {
		fmt.Fprintln(w, "No prescriptions found.")
		return
	}
	row(w, "ID", "VISIT", "DRUG", "DOSAGE", "FREQUENCY", "DURATION", "QTY", "DISPENSED")
	for _, p := range rx {
		row(w, p.ID, p.VisitID, p.DrugName, orDash(p.Dosage), orDash(p.Frequency), orDash(p.Duration),
			p.QuantityPrescribed, yesNo(p.Dispensed))
	}
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newBillingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "billing",
		Aliases: []string{"bills"},
		Short:   "Invoices and payments",
	}

	var page int
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices, optionally by payment status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				p   *hms.Page[hms.Billing]
				err error
			)
			if status != "" {
				p, err = a.client.Billing.ByStatus(cmd.Context(), hms.PaymentStatus(strings.ToUpper(status)), page)
			} else {
				p, err = a.client.Billing.List(cmd.Context(), page)
			}
			if err != nil {
				return fmt.Errorf("list invoices: %w", err)
			}
			return a.renderInvoices(p)
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")
	list.Flags().StringVar(&status, "status", "", "Only invoices in this status (PENDING, PARTIAL, PAID, REFUNDED, WAIVED)")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an invoice with items and payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("invoice", args[0])
			if err != nil {
				return err
			}
			b, err := a.client.Billing.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get invoice: %w", err)
			}
			return a.renderInvoice(b)
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Raise an invoice from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.Billing
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			b, err := a.client.Billing.Create(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("raise invoice: %w", err)
			}
			return a.renderInvoice(b)
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Invoice payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var itemFile string
	addItem := &cobra.Command{
		Use:   "add-item <id>",
		Short: "Add a line item from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("invoice", args[0])
			if err != nil {
				return err
			}
			var in hms.BillingItem
			if err := readPayload(itemFile, a.in, &in); err != nil {
				return err
			}
			b, err := a.client.Billing.AddItem(cmd.Context(), id, &in)
			if err != nil {
				return fmt.Errorf("add invoice item: %w", err)
			}
			return a.renderInvoice(b)
		},
	}
	addItem.Flags().StringVarP(&itemFile, "file", "f", "", "Item payload file ('-' for stdin)")
	addItem.MarkFlagRequired("file")

	var amount float64
	var method, reference string
	pay := &cobra.Command{
		Use:   "pay <id>",
		Short: "Record a payment against an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("invoice", args[0])
			if err != nil {
				return err
			}
			b, err := a.client.Billing.ProcessPayment(cmd.Context(), &hms.Payment{
				BillingID:       id,
				Amount:          amount,
				PaymentMethod:   hms.PaymentMethod(strings.ToUpper(method)),
				ReferenceNumber: reference,
			})
			if err != nil {
				return fmt.Errorf("record payment: %w", err)
			}
			return a.renderInvoice(b)
		},
	}
	pay.Flags().Float64Var(&amount, "amount", 0, "Amount paid")
	pay.Flags().StringVar(&method, "method", "CASH", "Payment method (CASH, MPESA, CARD, INSURANCE, BANK_TRANSFER)")
	pay.Flags().StringVar(&reference, "reference", "", "Payment reference, e.g. M-Pesa code")
	pay.MarkFlagRequired("amount")

	cmd.AddCommand(list, get, create, addItem, pay)
	return protect(a, cmd)
}

func (a *app) renderInvoices(p *hms.Page[hms.Billing]) error {
	return a.render(p, func(w io.Writer) {
		if len(p.Content) == 0 {
			fmt.Fprintln(w, "No invoices found.")
			return
		}
		row(w, "ID", "INVOICE", "PATIENT", "TOTAL", "PAID", "INSURANCE", "BALANCE", "STATUS")
		for _, b := range p.Content {
			row(w, b.ID, b.InvoiceNumber, b.PatientName, money(b.TotalAmount), money(b.PaidAmount),
				money(b.InsuranceCoveredAmount), money(b.Balance()), b.Status)
		}
		pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
	})
}

func (a *app) renderInvoice(b *hms.Billing) error {
	view := struct {
		*hms.Billing
		Balance float64 `json:"balance"`
	}{b, b.Balance()}

	return a.render(view, func(w io.Writer) {
		prof := a.profile.Get()
		fmt.Fprintf(w, "%s\n%s\n%s | %s | %s\n\n", prof.Name, prof.Tagline, prof.Address, prof.Phone, prof.Email)
		row(w, "Invoice:", fmt.Sprintf("%s (#%d)", b.InvoiceNumber, b.ID))
		row(w, "Patient:", fmt.Sprintf("%s (%s)", b.PatientName, b.PatientNo))
		row(w, "Status:", b.Status)
		if len(b.Items) > 0 {
			fmt.Fprintln(w)
			row(w, "SERVICE", "DESCRIPTION", "QTY", "UNIT", "TOTAL")
			for _, it := range b.Items {
				row(w, it.ServiceType, it.Description, it.Quantity, money(it.UnitPrice), money(it.TotalPrice))
			}
			fmt.Fprintln(w)
		}
		row(w, "Total:", money(b.TotalAmount))
		row(w, "Paid:", money(b.PaidAmount))
		row(w, "Insurance:", money(b.InsuranceCoveredAmount))
		row(w, "Balance:", money(b.Balance()))
		if len(b.Payments) > 0 {
			fmt.Fprintln(w)
			row(w, "RECEIPT", "METHOD", "AMOUNT", "REFERENCE", "RECEIVED BY", "WHEN")
			for _, pm := range b.Payments {
				row(w, orDash(pm.ReceiptNumber), pm.PaymentMethod, money(pm.Amount), orDash(pm.ReferenceNumber),
					orDash(pm.ReceivedByName), ago(pm.CreatedAt))
			}
		}
	})
}

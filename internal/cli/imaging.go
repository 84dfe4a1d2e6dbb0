package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newImagingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imaging",
		Short: "Radiology orders and reports",
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "List imaging orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Imaging.List(cmd.Context(), page)
			if err != nil {
				return fmt.Errorf("list imaging orders: %w", err)
			}
			return a.render(p, func(w io.Writer) {
				writeImagingOrders(w, p.Content)
				pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
			})
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")

	var statusPage int
	byStatus := &cobra.Command{
		Use:   "status <status>",
		Short: "List imaging orders in a status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Imaging.ByStatus(cmd.Context(), parseOrderStatus(args[0]), statusPage)
			if err != nil {
				return fmt.Errorf("list imaging orders: %w", err)
			}
			return a.render(p, func(w io.Writer) {
				writeImagingOrders(w, p.Content)
				pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
			})
		},
	}
	byStatus.Flags().IntVar(&statusPage, "page", 0, "Page number (zero-based)")

	visit := &cobra.Command{
		Use:   "visit <visit-id>",
		Short: "List a visit's imaging orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("visit", args[0])
			if err != nil {
				return err
			}
			orders, err := a.client.Imaging.ByVisit(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("list visit imaging orders: %w", err)
			}
			return a.render(orders, func(w io.Writer) { writeImagingOrders(w, orders) })
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Order imaging from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.ImagingOrder
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			o, err := a.client.Imaging.Create(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("order imaging: %w", err)
			}
			return a.render(o, func(w io.Writer) { writeImagingOrders(w, []hms.ImagingOrder{*o}) })
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Imaging order payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var findings, impression string
	complete := &cobra.Command{
		Use:   "complete <id>",
		Short: "Report an imaging study as the signed-in radiologist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("imaging order", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.Imaging.Complete(cmd.Context(), id, &hms.ImagingReport{
				Findings:      findings,
				Impression:    impression,
				RadiologistID: a.userID(),
			})
			if err != nil {
				return fmt.Errorf("complete imaging order: %w", err)
			}
			fmt.Fprintf(a.out, "Imaging order %d is now %s.\n", o.ID, o.Status)
			return nil
		},
	}
	complete.Flags().StringVar(&findings, "findings", "", "Findings")
	complete.Flags().StringVar(&impression, "impression", "", "Impression")
	complete.MarkFlagRequired("findings")

	cmd.AddCommand(list, byStatus, visit, create, complete)
	return protect(a, cmd)
}

func writeImagingOrders(w io.Writer, orders []hms.ImagingOrder) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No imaging orders found.")
		return
	}
	row(w, "ID", "VISIT", "TYPE", "BODY PART", "STATUS", "RADIOLOGIST", "PRICE")
	for _, o := range orders {
		row(w, o.ID, o.VisitID, o.ImagingType, orDash(o.BodyPart), o.Status, orDash(o.RadiologistName), money(o.Price))
	}
}

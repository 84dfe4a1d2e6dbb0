package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newLabCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lab",
		Short: "Lab test catalogue and orders",
	}
	cmd.AddCommand(newLabTestsCmd(a), newLabOrdersCmd(a))
	return protect(a, cmd)
}

func newLabTestsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tests",
		Short: "Manage the lab test catalogue",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List lab tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			tests, err := a.client.Lab.Tests(cmd.Context())
			if err != nil {
				return fmt.Errorf("list lab tests: %w", err)
			}
			return a.render(tests, func(w io.Writer) { writeLabTests(w, tests) })
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a lab test from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in hms.LabTest
			if err := readPayload(createFile, a.in, &in); err != nil {
				return err
			}
			t, err := a.client.Lab.CreateTest(cmd.Context(), &in)
			if err != nil {
				return fmt.Errorf("add lab test: %w", err)
			}
			return a.render(t, func(w io.Writer) { writeLabTests(w, []hms.LabTest{*t}) })
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "Lab test payload file ('-' for stdin)")
	create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a lab test from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("lab test", args[0])
			if err != nil {
				return err
			}
			var in hms.LabTest
			if err := readPayload(updateFile, a.in, &in); err != nil {
				return err
			}
			t, err := a.client.Lab.UpdateTest(cmd.Context(), id, &in)
			if err != nil {
				return fmt.Errorf("update lab test: %w", err)
			}
			return a.render(t, func(w io.Writer) { writeLabTests(w, []hms.LabTest{*t}) })
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "", "Lab test payload file ('-' for stdin)")
	update.MarkFlagRequired("file")

	cmd.AddCommand(list, create, update)
	return cmd
}

func writeLabTests(w io.Writer, tests []hms.LabTest) {
	if len(tests) == 0 {
		fmt.Fprintln(w, "No lab tests found.")
		return
	}
	row(w, "ID", "CODE", "NAME", "CATEGORY", "SAMPLE", "RANGE", "TAT", "PRICE")
	for _, t := range tests {
		row(w, t.ID, orDash(t.TestCode), t.TestName, orDash(t.Category), orDash(t.SampleType),
			orDash(strings.TrimSpace(t.ReferenceRange+" "+t.Unit)), fmt.Sprintf("%dh", t.TurnaroundTimeHours), money(t.Price))
	}
}

// parseOrderStatus normalizes a status argument such as "sample-collected".
func parseOrderStatus(s string) hms.LabOrderStatus {
	return hms.LabOrderStatus(strings.ToUpper(strings.ReplaceAll(s, "-", "_")))
}

func newLabOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order lab tests and move them through the lab",
	}

	var visitID, testID int64
	create := &cobra.Command{
		Use:   "create",
		Short: "Order a lab test for a visit as the signed-in clinician",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.client.Lab.CreateOrder(cmd.Context(), visitID, testID, a.userID())
			if err != nil {
				return fmt.Errorf("order lab test: %w", err)
			}
			return a.render(o, func(w io.Writer) { writeLabOrders(w, []hms.LabOrder{*o}) })
		},
	}
	create.Flags().Int64Var(&visitID, "visit", 0, "Visit id")
	create.Flags().Int64Var(&testID, "test", 0, "Lab test id")
	create.MarkFlagRequired("visit")
	create.MarkFlagRequired("test")

	visit := &cobra.Command{
		Use:   "visit <visit-id>",
		Short: "List a visit's lab orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("visit", args[0])
			if err != nil {
				return err
			}
			orders, err := a.client.Lab.OrdersByVisit(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("list visit lab orders: %w", err)
			}
			return a.render(orders, func(w io.Writer) { writeLabOrders(w, orders) })
		},
	}

	var page int
	byStatus := &cobra.Command{
		Use:   "status <status>",
		Short: "List lab orders in a status (ORDERED, SAMPLE_COLLECTED, PROCESSING, ...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Lab.OrdersByStatus(cmd.Context(), parseOrderStatus(args[0]), page)
			if err != nil {
				return fmt.Errorf("list lab orders: %w", err)
			}
			return a.render(p, func(w io.Writer) {
				writeLabOrders(w, p.Content)
				pageFooter(w, p.Number, p.TotalPages, p.TotalElements)
			})
		},
	}
	byStatus.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")

	collect := &cobra.Command{
		Use:   "collect <id>",
		Short: "Record sample collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("lab order", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.Lab.CollectSample(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("collect sample: %w", err)
			}
			return a.printOrderStatus(o)
		},
	}

	var result, remarks string
	var abnormal bool
	process := &cobra.Command{
		Use:   "process <id>",
		Short: "Enter a result as the signed-in technician",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("lab order", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.Lab.Process(cmd.Context(), id, &hms.LabResult{
				Result:        result,
				Abnormal:      abnormal,
				Remarks:       remarks,
				ProcessedByID: a.userID(),
			})
			if err != nil {
				return fmt.Errorf("process lab order: %w", err)
			}
			return a.printOrderStatus(o)
		},
	}
	process.Flags().StringVar(&result, "result", "", "Result value")
	process.Flags().BoolVar(&abnormal, "abnormal", false, "Flag the result as abnormal")
	process.Flags().StringVar(&remarks, "remarks", "", "Remarks")
	process.MarkFlagRequired("result")

	verify := &cobra.Command{
		Use:   "verify <id>",
		Short: "Verify a result as the signed-in user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("lab order", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.Lab.Verify(cmd.Context(), id, a.userID())
			if err != nil {
				return fmt.Errorf("verify lab order: %w", err)
			}
			return a.printOrderStatus(o)
		},
	}

	release := &cobra.Command{
		Use:   "release <id>",
		Short: "Release a verified result to the clinician",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("lab order", args[0])
			if err != nil {
				return err
			}
			o, err := a.client.Lab.Release(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("release lab order: %w", err)
			}
			return a.printOrderStatus(o)
		},
	}

	cmd.AddCommand(create, visit, byStatus, collect, process, verify, release)
	return cmd
}

func (a *app) printOrderStatus(o *hms.LabOrder) error {
	return a.render(o, func(w io.Writer) {
		fmt.Fprintf(w, "Lab order %d (%s) is now %s.\n", o.ID, o.TestName, o.Status)
		if next, ok := o.Status.Next(); ok {
			fmt.Fprintf(w, "Next step: %s\n", next)
		}
	})
}

func writeLabOrders(w io.Writer, orders []hms.LabOrder) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No lab orders found.")
		return
	}
	row(w, "ID", "VISIT", "TEST", "STATUS", "RESULT", "ABNORMAL", "ORDERED BY")
	for _, o := range orders {
		row(w, o.ID, o.VisitID, o.TestName, o.Status, orDash(o.Result), yesNo(o.Abnormal), orDash(o.OrderedByName))
	}
}

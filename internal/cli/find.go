package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/search"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

func newFindCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search as you type: one query per input line",
		Long: "find reads queries from standard input, one per line. A search runs once\n" +
			"input pauses for the debounce period, and only the newest query's results\n" +
			"are printed.",
	}

	patients := &cobra.Command{
		Use:   "patients",
		Short: "Find patients by name, number, phone or id number",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind[*hms.Page[hms.Patient]](a, cmd.Context(),
				func(ctx context.Context, q string) (*hms.Page[hms.Patient], error) {
					return a.client.Patients.Search(ctx, q, 0)
				},
				func(w io.Writer, p *hms.Page[hms.Patient]) {
					if len(p.Content) == 0 {
						fmt.Fprintln(w, "  no matches")
						return
					}
					for _, pt := range p.Content {
						row(w, "  "+pt.PatientNo, pt.FullName, orDash(pt.Phone))
					}
				})
		},
	}

	drugs := &cobra.Command{
		Use:   "drugs",
		Short: "Find drugs by generic or brand name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind[*hms.Page[hms.Drug]](a, cmd.Context(),
				func(ctx context.Context, q string) (*hms.Page[hms.Drug], error) {
					return a.client.Pharmacy.SearchDrugs(ctx, q, 0)
				},
				func(w io.Writer, p *hms.Page[hms.Drug]) {
					if len(p.Content) == 0 {
						fmt.Fprintln(w, "  no matches")
						return
					}
					for _, d := range p.Content {
						row(w, fmt.Sprintf("  #%d", d.ID), d.GenericName, orDash(d.BrandName), fmt.Sprintf("%d in stock", d.QuantityInStock))
					}
				})
		},
	}

	cmd.AddCommand(patients, drugs)
	return protect(a, cmd)
}

// runFind feeds input lines to a debouncer and prints each fresh result.
func runFind[T any](a *app, ctx context.Context, fn search.Func[T], table func(io.Writer, T)) error {
	var mu sync.Mutex
	var firstErr error

	d := search.NewDebouncer(a.cfg.Debounce, fn, func(r search.Result[T]) {
		mu.Lock()
		defer mu.Unlock()
		if r.Err != nil {
			fmt.Fprintf(a.out, "%q: %s\n", r.Query, hms.Message(r.Err))
			if firstErr == nil && hms.IsUnauthorized(r.Err) {
				firstErr = fmt.Errorf("search: %w", r.Err)
			}
			return
		}
		if err := a.render(r.Value, func(w io.Writer) {
			fmt.Fprintf(w, "%q:\n", r.Query)
			table(w, r.Value)
		}); err != nil {
			a.logger.Warn("render search result", "error", err)
		}
	}, a.logger)
	defer d.Close()

	if stdinIsTerminal() {
		fmt.Fprintln(a.out, "Type a query and press enter; Ctrl-D to finish.")
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			scanErr <- err
			close(lines)
		}()
		sc := bufio.NewScanner(a.in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
		err = sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				d.Drain()
				if err := <-scanErr; err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				mu.Lock()
				err := firstErr
				mu.Unlock()
				return err
			}
			d.Submit(line)
		}
	}
}

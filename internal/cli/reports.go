package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/guard"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

const dateLayout = "2006-01-02"

// defaultRange is the first of the current month through today.
func defaultRange(now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.Format(dateLayout), now.Format(dateLayout)
}

func newReportsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Financial and patient reports",
	}

	var from, to string
	run := func(name string, fetch func(cmd *cobra.Command, start, end string) (hms.Report, error)) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Show the %s report for a date range", name),
			RunE: func(cmd *cobra.Command, args []string) error {
				start, end := defaultRange(time.Now())
				if from != "" {
					start = from
				}
				if to != "" {
					end = to
				}
				r, err := fetch(cmd, start, end)
				if err != nil {
					return fmt.Errorf("%s report: %w", name, err)
				}
				return a.render(r, func(w io.Writer) {
					fmt.Fprintf(w, "%s: %s report, %s to %s\n\n", a.profile.Get().Name, name, start, end)
					writeReport(w, r)
				})
			},
		}
	}

	financial := run("financial", func(cmd *cobra.Command, start, end string) (hms.Report, error) {
		return a.client.Reports.Financial(cmd.Context(), start, end)
	})
	patients := run("patients", func(cmd *cobra.Command, start, end string) (hms.Report, error) {
		return a.client.Reports.Patients(cmd.Context(), start, end)
	})

	cmd.PersistentFlags().StringVar(&from, "from", "", "Start date YYYY-MM-DD (default first of this month)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "End date YYYY-MM-DD (default today)")

	cmd.AddCommand(financial, patients)
	return protect(a, cmd, guard.Finance...)
}

// writeReport prints scalar metrics first, then nested breakdowns.
func writeReport(w io.Writer, r hms.Report) {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var nested []string
	for _, k := range keys {
		switch v := r[k].(type) {
		case map[string]any, []any:
			nested = append(nested, k)
		case float64:
			if isMoneyKey(k) {
				row(w, k+":", money(v))
			} else {
				row(w, k+":", formatNumber(v))
			}
		default:
			row(w, k+":", v)
		}
	}

	for _, k := range nested {
		fmt.Fprintf(w, "\n%s:\n", k)
		switch v := r[k].(type) {
		case map[string]any:
			sub := make([]string, 0, len(v))
			for sk := range v {
				sub = append(sub, sk)
			}
			sort.Strings(sub)
			for _, sk := range sub {
				if f, ok := v[sk].(float64); ok {
					if isMoneyKey(k) || isMoneyKey(sk) {
						row(w, "  "+sk, money(f))
					} else {
						row(w, "  "+sk, formatNumber(f))
					}
					continue
				}
				row(w, "  "+sk, v[sk])
			}
		case []any:
			for _, item := range v {
				row(w, "  -", item)
			}
		}
	}
}

func isMoneyKey(k string) bool {
	k = strings.ToLower(k)
	for _, s := range []string{"revenue", "amount", "income", "collected", "balance"} {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return humanize.Comma(int64(f))
	}
	return humanize.FormatFloat("#,###.##", f)
}

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// render writes v in the configured output format. table draws the
// human-readable form and is only called for "table".
func (a *app) render(v any, table func(w io.Writer)) error {
	switch strings.ToLower(a.cfg.Output) {
	case "json":
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		return writeYAML(a.out, v)
	default:
		tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

// writeYAML emits v with the same field names as its JSON form.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}

// row writes one tab-separated table row.
func row(w io.Writer, cols ...any) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

// pageFooter prints the pagination summary under a table.
func pageFooter(w io.Writer, number, totalPages int, total int64) {
	if totalPages > 1 {
		fmt.Fprintf(w, "\n(page %d of %d, %d total)\n", number+1, totalPages, total)
	}
}

// money formats an amount the way invoices show it, e.g. "KES 1,500.00".
func money(amount float64) string {
	return "KES " + humanize.FormatFloat("#,###.##", amount)
}

// waitTime renders how long ago an RFC 3339 timestamp was, e.g. "45m" or
// "2h 5m". Unparseable input yields "-".
func waitTime(createdAt string, now time.Time) string {
	t, err := parseTimestamp(createdAt)
	if err != nil {
		return "-"
	}
	mins := int(now.Sub(t).Minutes())
	if mins < 0 {
		mins = 0
	}
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ago formats a timestamp relative to now, falling back to the raw value.
func ago(s string) string {
	t, err := parseTimestamp(s)
	if err != nil {
		return s
	}
	return humanize.Time(t)
}

// orDash substitutes "-" for empty strings in tables.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// readPayload decodes a JSON or YAML file into dst. YAML is selected by
// the .yaml/.yml extension; "-" reads from in.
func readPayload(path string, in io.Reader, dst any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("parse payload %s: %w", path, err)
		}
		if data, err = json.Marshal(generic); err != nil {
			return fmt.Errorf("parse payload %s: %w", path, err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("parse payload %s: %w", path, err)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// parseID parses a positive numeric identifier argument.
func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

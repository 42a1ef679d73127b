// Package report formats contestant configurations into markdown tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/weiihann/vdombench/contestant"
)

// Generate writes a markdown table of the contestants in display order.
func Generate(w io.Writer, cfg *contestant.Config) error {
	if cfg == nil || len(cfg.Contestants) == 0 {
		return fmt.Errorf("no contestants to report")
	}

	// Header.
	fmt.Fprintln(w, "## Contestants")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Tests: %s\n", cfg.Tests)
	fmt.Fprintln(w)

	// Table header.
	fmt.Fprintln(w, "| # | Name | URL | Benchmark URL |")
	fmt.Fprintln(w, "|---|------|-----|---------------|")

	for i, c := range cfg.Contestants {
		fmt.Fprintf(w, "| %d | %s | %s | %s |\n",
			i+1,
			escapeCell(c.Name),
			formatURL(c.URL),
			formatURL(c.BenchmarkURL),
		)
	}

	if dups := contestant.Duplicates(cfg); len(dups) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Duplicate names: %s\n", strings.Join(dups, ", "))
	}

	return nil
}

// GenerateJSON writes cfg as JSON to w.
func GenerateJSON(w io.Writer, cfg *contestant.Config) error {
	return contestant.EncodeJSON(w, cfg)
}

// GenerateDiff writes a markdown table of configuration differences.
func GenerateDiff(w io.Writer, diffs []contestant.Difference) error {
	if len(diffs) == 0 {
		_, err := fmt.Fprintln(w, "Configurations are identical.")

		return err
	}

	fmt.Fprintln(w, "## Differences")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Field | Contestant | Left | Right |")
	fmt.Fprintln(w, "|-------|------------|------|-------|")

	for _, d := range diffs {
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			d.Path,
			orDash(escapeCell(d.Name)),
			orDash(escapeCell(d.Left)),
			orDash(escapeCell(d.Right)),
		)
	}

	return nil
}

// GenerateDiffJSON writes diffs as JSON to w.
func GenerateDiffJSON(w io.Writer, diffs []contestant.Difference) error {
	if diffs == nil {
		diffs = []contestant.Difference{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(diffs)
}

func formatURL(u string) string {
	if u == "" {
		return "-"
	}

	return "<" + u + ">"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

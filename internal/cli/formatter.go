package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/idelchi/dirtree/internal/dirtree"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *dirtree.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintGrid outputs the report as a bordered grid table.
func PrintGrid(report *dirtree.Report, format func(int64) string, writer io.Writer) error {
	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, []string(row))
	}

	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		StyleFunc(func(_, _ int) lipgloss.Style { return cell }).
		Headers(report.Headers...).
		Rows(rows...)

	if _, err := fmt.Fprintln(writer, t.Render()); err != nil {
		return err
	}

	return printSummary(report, format, writer)
}

// PrintPlain outputs the report as a tab-aligned table without borders.
func PrintPlain(report *dirtree.Report, format func(int64) string, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, strings.Join(report.Headers, "\t"))

	for _, row := range report.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	return printSummary(report, format, writer)
}

// printSummary writes the totals below a table.
func printSummary(report *dirtree.Report, format func(int64) string, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Directories shown:\t%d\n", len(report.Rows))
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", format(report.TotalBytes), report.TotalBytes)

	if report.ErrorCount > 0 {
		fmt.Fprintf(w, "Inaccessible paths:\t%d\n", report.ErrorCount)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed)

	return w.Flush()
}

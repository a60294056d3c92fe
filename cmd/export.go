package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pto/internal/export"
	"github.com/Tiliavir/pto/internal/report"
	"github.com/Tiliavir/pto/internal/timecalc"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export booked paid time off of the current period",
	Long: `Export one row per booked day of the current time-away period. Without an
id the authenticated person is used. xlsx adds a sheet with monthly totals.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "csv", "json", "xlsx":
	default:
		return fmt.Errorf("unknown export format %q: must be csv, json or xlsx", exportFormat)
	}

	client, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	b, err := fetchBundle(cmd, client, args)
	if err != nil {
		return err
	}
	rows := export.Rows(b)

	w := cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		defer f.Close()
		w = f
	}

	year := timecalc.BusinessYearInterval(now())
	agg := report.Aggregate(b.PTOInCurrentPeriod, b.CurrentTimeAwayPeriod, year)
	periodStart := b.CurrentTimeAwayPeriod.Period.Start
	if periodStart.IsZero() {
		periodStart = year.Start
	}

	if err := writeExport(w, rows, agg, periodStart); err != nil {
		fmt.Fprintln(os.Stderr, "error writing export:", err)
		os.Exit(2)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Exported %d days to %s\n", len(rows), exportOut)
	}
	return nil
}

func writeExport(w io.Writer, rows []export.Row, agg report.Aggregation, periodStart time.Time) error {
	switch exportFormat {
	case "json":
		if rows == nil {
			rows = []export.Row{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "xlsx":
		return export.WriteXLSX(w, rows, agg, periodStart)
	default: // csv
		return export.WriteCSV(w, rows)
	}
}

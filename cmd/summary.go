package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pto/internal/dashboard"
	"github.com/Tiliavir/pto/internal/humaans"
	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/report"
	"github.com/Tiliavir/pto/internal/timecalc"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [id]",
	Short: "Summarise a person's paid time off in the current business year",
	Long: `Print the allowance summary and the quarterly and monthly totals of the
current business year. Without an id the authenticated person is used.
With --output the full dashboard page is printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

// now is replaced in tests.
var now = time.Now

func runSummary(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	b, err := fetchBundle(cmd, client, args)
	if err != nil {
		return err
	}

	page := dashboard.Compose(dashboard.ViewOfBundle(b), now())
	if cmd.Flags().Changed("output") {
		return render(cmd.OutOrStdout(), page)
	}
	printSummary(cmd.OutOrStdout(), page, b.CurrentTimeAwayPeriod.Period.Start, now())
	return nil
}

// fetchBundle loads the bundle of the person named in args, or of the
// authenticated person.
func fetchBundle(cmd *cobra.Command, client *humaans.Client, args []string) (model.PTOBundle, error) {
	if id := optionalID(args); id != "" {
		return client.PTOForPerson(cmd.Context(), id)
	}
	return client.PTOForMe(cmd.Context())
}

const rule = "----------------------------------------"

// printSummary writes the summary as plain text tables. Months are labelled
// from periodStart, the origin of the monthly buckets.
func printSummary(w io.Writer, p dashboard.Page, periodStart, at time.Time) {
	year := timecalc.BusinessYearInterval(at)
	s := p.Summary

	fmt.Fprintf(w, "%s, %s to %s\n", s.Name, timecalc.FormatDate(year.Start), timecalc.FormatDate(year.End))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-28s%s\n", "Allowance", days(s.Allowance))
	fmt.Fprintf(w, "%-28s%s\n", "Carried over", days(s.CarriedOver))
	fmt.Fprintf(w, "%-28s%s\n", "Allowance with rollover", days(s.AllowanceWithRollover))
	fmt.Fprintf(w, "%-28s%s\n", "Used", days(s.Used))
	fmt.Fprintf(w, "%-28s%s\n", "Upcoming", days(s.Upcoming))
	fmt.Fprintf(w, "%-28s%s\n", "Remaining", days(s.Remaining))
	fmt.Fprintf(w, "%-28s%s\n", "Max carry over", days(s.MaxCarryOver))
	if s.DaysToBookBeforeOct1 != nil {
		fmt.Fprintf(w, "%-28s%s\n", "To book before Oct 1", days(*s.DaysToBookBeforeOct1))
	}
	if s.DaysToBookBeforeDec1 != nil {
		fmt.Fprintf(w, "%-28s%s\n", "To book before Dec 1", days(*s.DaysToBookBeforeDec1))
	}
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "%-10s%6s   (recommended %d)\n", "Quarter", "Days", report.RecommendedPerQuarter)
	for _, q := range p.Chart.Quarterly {
		fmt.Fprintf(w, "%-10s%6d\n", q.Label, q.Days)
	}
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "%-10s%8s%8s%12s\n", "Month", "Entries", "Days", "Cumulative")
	if periodStart.IsZero() {
		periodStart = year.Start
	}
	for i := range report.Months {
		label := timecalc.AddMonths(periodStart, i).Format("Jan 2006")
		fmt.Fprintf(w, "%-10s%8d%8s%12d\n", label,
			p.Aggregation.Monthly[i],
			strconv.FormatFloat(p.Aggregation.WeightedMonthly[i], 'f', -1, 64),
			p.Aggregation.Cumulative[i])
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-10s%8d\n", "Total", p.Aggregation.Total)
	fmt.Fprintf(w, "%-10s%8s%s\n", "Allowed", "", days(p.Aggregation.AllowedHoliday))
	fmt.Fprintf(w, "%-10s%8s%s\n", "Minimum", "", days(p.Aggregation.MinimumHoliday))
}

// days formats a day count, or "-" when upstream sent no number.
func days(d model.Days) string {
	if d.IsNaN() {
		return "-"
	}
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

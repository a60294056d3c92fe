// Package export writes a person's booked time off as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/report"
	"github.com/Tiliavir/pto/internal/timecalc"
)

// Row is one booked day.
type Row struct {
	Date       string  `json:"date"`
	Week       string  `json:"week"`
	PersonID   string  `json:"personId"`
	PersonName string  `json:"person"`
	TimeAwayID string  `json:"timeAwayId"`
	Type       string  `json:"type"`
	Period     string  `json:"period"`
	Weight     float64 `json:"days"`
	Kind       string  `json:"kind,omitempty"`
	Weekend    bool    `json:"weekend"`
}

// Header is the column order of CSV and XLSX output.
var Header = []string{"date", "week", "person_id", "person", "time_away_id", "type", "period", "days", "kind", "weekend"}

// Rows flattens the bundle's breakdown days in date order. Weekend days are
// kept and flagged.
func Rows(b model.PTOBundle) []Row {
	var rows []Row
	for _, ta := range b.PTOInCurrentPeriod {
		for _, d := range ta.Breakdown {
			rows = append(rows, Row{
				Date:       timecalc.FormatDate(d.Date),
				Week:       timecalc.ISOWeekLabel(d.Date),
				PersonID:   b.Person.ID,
				PersonName: b.Person.Name,
				TimeAwayID: ta.ID,
				Type:       ta.Type,
				Period:     d.Period,
				Weight:     d.Weight(),
				Kind:       d.Kind,
				Weekend:    timecalc.IsWeekend(d.Date),
			})
		}
	}
	slices.SortStableFunc(rows, func(a, b Row) int { return strings.Compare(a.Date, b.Date) })
	return rows
}

func (r Row) fields() []string {
	return []string{
		r.Date,
		r.Week,
		r.PersonID,
		r.PersonName,
		r.TimeAwayID,
		r.Type,
		r.Period,
		strconv.FormatFloat(r.Weight, 'f', -1, 64),
		r.Kind,
		strconv.FormatBool(r.Weekend),
	}
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintln(w, strings.Join(Header, ",")); err != nil {
		return err
	}
	for _, r := range rows {
		fields := r.fields()
		for i, f := range fields {
			fields[i] = CSVEscape(f)
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

// CSVEscape wraps a field in quotes if it contains a comma, quote, or newline.
func CSVEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Sheet names of the XLSX workbook.
const (
	SheetDays    = "Time off"
	SheetMonthly = "Monthly"
)

// WriteXLSX writes a workbook with the booked days and the monthly and
// quarterly totals of agg.
func WriteXLSX(w io.Writer, rows []Row, agg report.Aggregation, periodStart time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetDays); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := setRow(f, SheetDays, 1, toAny(Header)); err != nil {
		return err
	}
	for i, r := range rows {
		values := []any{
			r.Date, r.Week, r.PersonID, r.PersonName,
			r.TimeAwayID, r.Type, r.Period, r.Weight, r.Kind, r.Weekend,
		}
		if err := setRow(f, SheetDays, i+2, values); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetMonthly); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := setRow(f, SheetMonthly, 1, []any{"month", "entries", "days", "cumulative", "quarter"}); err != nil {
		return err
	}
	for i := range report.Months {
		month := timecalc.AddMonths(periodStart, i)
		values := []any{
			month.Format("Jan 2006"),
			agg.Monthly[i],
			agg.WeightedMonthly[i],
			agg.Cumulative[i],
			"Q" + strconv.Itoa(i/3+1),
		}
		if err := setRow(f, SheetMonthly, i+2, values); err != nil {
			return err
		}
	}
	totalRow := report.Months + 3
	if err := setRow(f, SheetMonthly, totalRow, []any{"allowed", float64(agg.AllowedHoliday)}); err != nil {
		return err
	}
	if err := setRow(f, SheetMonthly, totalRow+1, []any{"minimum", float64(agg.MinimumHoliday)}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

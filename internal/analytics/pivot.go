package analytics

import (
	"sort"
	"time"

	"github.com/loomworks/loomdesk/internal/domain/models"
)

const isoDate = "2006-01-02"

// Grid is the dense date x loom salary-slip pivot. Cells is fully zero-filled
// over Dates x Looms so the printed slip can show "-" for empty cells instead
// of omitting rows or columns.
type Grid struct {
	Dates      []string
	Looms      []string
	Cells      map[string]map[string]float64
	LoomTotals map[string]float64

	TotalMeters float64
	TotalSalary float64
	AvgRate     float64
}

// GridOptions optionally pins the grid domains. A nil slice means "derive
// from the records"; records outside an explicit domain are silently dropped
// from the accumulation.
type GridOptions struct {
	Dates []string
	Looms []string
}

// SalaryGrid pivots salary details into a dense per-date, per-loom meter
// matrix with column totals, and passes the backend-computed summary through.
//
// Dates are sorted by actual calendar-date comparison so the slip displays
// chronologically regardless of string format. Loom labels are sorted with a
// numeric-aware comparison ("2" before "10"), matching loom-numbering
// conventions. The grid key for a loom is its display label, not the loom id:
// two looms sharing a label collapse into one column.
func SalaryGrid(details []models.SalaryDetail, summary models.SalarySummary, opts GridOptions) Grid {
	dates := opts.Dates
	if dates == nil {
		dates = distinctDates(details)
	}
	sortDates(dates)

	looms := opts.Looms
	if looms == nil {
		looms = distinctLooms(details)
	}
	sort.SliceStable(looms, func(i, j int) bool {
		return compareNatural(looms[i], looms[j]) < 0
	})

	cells := make(map[string]map[string]float64, len(dates))
	for _, date := range dates {
		row := make(map[string]float64, len(looms))
		for _, loom := range looms {
			row[loom] = 0
		}
		cells[date] = row
	}

	loomTotals := make(map[string]float64, len(looms))
	for _, loom := range looms {
		loomTotals[loom] = 0
	}

	for _, rec := range details {
		meters := rec.Meters
		if row, ok := cells[rec.Date]; ok {
			if _, ok := row[rec.Loom]; ok {
				row[rec.Loom] += meters
			}
		}
		if _, ok := loomTotals[rec.Loom]; ok {
			loomTotals[rec.Loom] += meters
		}
	}

	grid := Grid{
		Dates:       dates,
		Looms:       looms,
		Cells:       cells,
		LoomTotals:  loomTotals,
		TotalMeters: summary.TotalMeters,
		TotalSalary: summary.TotalSalary,
	}
	if grid.TotalMeters > 0 {
		grid.AvgRate = grid.TotalSalary / grid.TotalMeters
	}
	return grid
}

func distinctDates(details []models.SalaryDetail) []string {
	seen := make(map[string]struct{}, len(details))
	out := make([]string, 0, len(details))
	for _, rec := range details {
		if _, ok := seen[rec.Date]; ok {
			continue
		}
		seen[rec.Date] = struct{}{}
		out = append(out, rec.Date)
	}
	return out
}

func distinctLooms(details []models.SalaryDetail) []string {
	seen := make(map[string]struct{}, len(details))
	out := make([]string, 0, len(details))
	for _, rec := range details {
		if _, ok := seen[rec.Loom]; ok {
			continue
		}
		seen[rec.Loom] = struct{}{}
		out = append(out, rec.Loom)
	}
	return out
}

// sortDates orders ISO date strings by parsed calendar instant. Values that
// fail to parse sort after valid dates, among themselves by string order.
func sortDates(dates []string) {
	sort.SliceStable(dates, func(i, j int) bool {
		a, errA := time.Parse(isoDate, dates[i])
		b, errB := time.Parse(isoDate, dates[j])
		switch {
		case errA == nil && errB == nil:
			return a.Before(b)
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return dates[i] < dates[j]
		}
	})
}

// compareNatural compares strings treating digit runs as numbers, so that
// "2" < "10" and "A2" < "A10". Non-digit segments compare byte-wise.
func compareNatural(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			// Walk both digit runs.
			startA, startB := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			numA := trimLeadingZeros(a[startA:i])
			numB := trimLeadingZeros(b[startB:j])
			if len(numA) != len(numB) {
				if len(numA) < len(numB) {
					return -1
				}
				return 1
			}
			if numA != numB {
				if numA < numB {
					return -1
				}
				return 1
			}
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

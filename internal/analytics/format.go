package analytics

import (
	"fmt"
	"strconv"
	"time"
)

// FormatCell renders a grid cell for the printable slip: one decimal place
// when the value is greater than zero, the literal "-" when it is exactly
// zero or negative.
func FormatCell(v float64) string {
	if v > 0 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return "-"
}

// FormatTotal renders a column or grand total with one decimal place.
func FormatTotal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatDayMonth renders an ISO date as "day/month" without leading zeros or
// year, from the parsed calendar date rather than substring slicing. Values
// that fail to parse are returned unchanged.
func FormatDayMonth(date string) string {
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d", t.Day(), int(t.Month()))
}

// Package analytics contains the pure aggregation and pivot routines used to
// derive chart series and salary-slip grids from flat production records. No
// function here performs I/O or mutates its input; output depends on input
// order only where a tie-break is documented.
package analytics

import (
	"sort"

	"github.com/loomworks/loomdesk/internal/domain/models"
)

// TrendPoint is one date's aggregated production.
type TrendPoint struct {
	Date     string
	Meters   float64
	Earnings float64
}

// PerformerTotal is one worker's aggregated production.
type PerformerTotal struct {
	WorkerID string
	Name     string
	Meters   float64
	Earnings float64
}

// DailyTrend groups records by exact date string and sums meters and earnings
// per group. Output is ordered ascending by lexicographic date comparison,
// which equals chronological order for ISO YYYY-MM-DD dates. Empty input
// yields empty output.
func DailyTrend(records []models.ProductionHistoryItem) []TrendPoint {
	grouped := make(map[string]*TrendPoint, len(records))
	dates := make([]string, 0, len(records))

	for _, rec := range records {
		point, ok := grouped[rec.Date]
		if !ok {
			point = &TrendPoint{Date: rec.Date}
			grouped[rec.Date] = point
			dates = append(dates, rec.Date)
		}
		point.Meters += rec.Meters
		point.Earnings += rec.Earnings
	}

	sort.Strings(dates)

	out := make([]TrendPoint, 0, len(dates))
	for _, date := range dates {
		out = append(out, *grouped[date])
	}
	return out
}

// TopPerformers groups records by worker id, sums meters and earnings, and
// returns at most limit entries sorted descending by meters. The display name
// is the worker_name of the first record seen for that worker. The sort is
// explicitly stable: workers with equal meters keep input encounter order.
func TopPerformers(records []models.ProductionHistoryItem, limit int) []PerformerTotal {
	grouped := make(map[string]*PerformerTotal, len(records))
	order := make([]string, 0, len(records))

	for _, rec := range records {
		total, ok := grouped[rec.WorkerID]
		if !ok {
			total = &PerformerTotal{WorkerID: rec.WorkerID, Name: rec.WorkerName}
			grouped[rec.WorkerID] = total
			order = append(order, rec.WorkerID)
		}
		total.Meters += rec.Meters
		total.Earnings += rec.Earnings
	}

	out := make([]PerformerTotal, 0, len(order))
	for _, id := range order {
		out = append(out, *grouped[id])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Meters > out[j].Meters
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

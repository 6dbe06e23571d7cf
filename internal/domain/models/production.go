package models

// Shift values accepted by the backend.
const (
	ShiftDay   = "Day"
	ShiftNight = "Night"
)

// ProductionEntry is the payload for recording one loom's output for a date.
type ProductionEntry struct {
	WorkerID   string  `json:"worker_id"`
	LoomID     string  `json:"loom_id"`
	ShedName   string  `json:"shed_name"`
	LoomNumber string  `json:"loom_number"`
	Date       string  `json:"date"` // ISO calendar date, no time component
	Shift      string  `json:"shift"`
	Meters     float64 `json:"meters"`
	Rate       float64 `json:"rate"`
}

// ProductionRecord is the backend's acknowledgement of a stored entry.
type ProductionRecord struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Shift  string  `json:"shift"`
	Meters float64 `json:"meters"`
	Loom   string  `json:"loom"`
	LoomID string  `json:"loom_id"`
}

// ProductionHistoryItem is one row of the enriched history listing. Earnings
// are computed upstream (meters x rate) and passed through as given.
type ProductionHistoryItem struct {
	ID         string  `json:"id"`
	WorkerID   string  `json:"worker_id"`
	WorkerName string  `json:"worker_name"`
	LoomID     string  `json:"loom_id"`
	LoomNumber string  `json:"loom_number"`
	ShedName   string  `json:"shed_name"`
	Date       string  `json:"date"`
	Shift      string  `json:"shift"`
	Meters     float64 `json:"meters"`
	Rate       float64 `json:"rate"`
	Earnings   float64 `json:"earnings"`
}

// ProductionUpdate is a partial update for an existing record.
type ProductionUpdate struct {
	Date   *string  `json:"date,omitempty"`
	Shift  *string  `json:"shift,omitempty"`
	Meters *float64 `json:"meters,omitempty"`
	Rate   *float64 `json:"rate,omitempty"`
}

// ProductionAnalytics is the pre-aggregated summary served by the optional
// analytics endpoint. Its absence is tolerated by callers.
type ProductionAnalytics struct {
	DailyProduction []DailyProduction `json:"daily_production"`
	TopPerformers   []TopPerformer    `json:"top_performers"`
	LoomUtilization []LoomUtilization `json:"loom_utilization"`
	Summary         AnalyticsSummary  `json:"summary"`
}

// DailyProduction is one point of the upstream daily series.
type DailyProduction struct {
	Date     string  `json:"date"`
	Meters   float64 `json:"meters"`
	Earnings float64 `json:"earnings"`
}

// TopPerformer is one upstream leaderboard row.
type TopPerformer struct {
	WorkerID      string  `json:"worker_id"`
	WorkerName    string  `json:"worker_name"`
	TotalMeters   float64 `json:"total_meters"`
	TotalEarnings float64 `json:"total_earnings"`
}

// LoomUtilization reports per-loom usage over the analytics window.
type LoomUtilization struct {
	LoomID      string  `json:"loom_id"`
	LoomNumber  string  `json:"loom_number"`
	ShedName    string  `json:"shed_name"`
	TotalMeters float64 `json:"total_meters"`
	UsageCount  int     `json:"usage_count"`
}

// AnalyticsSummary holds the window-wide headline numbers.
type AnalyticsSummary struct {
	TotalMeters    float64 `json:"total_meters"`
	TotalEarnings  float64 `json:"total_earnings"`
	AvgDailyMeters float64 `json:"avg_daily_meters"`
	ActiveWorkers  int     `json:"active_workers"`
	ActiveLooms    int     `json:"active_looms"`
}

package models

import "time"

// SalaryDetail is one production line inside a salary calculation.
type SalaryDetail struct {
	Date   string  `json:"date"`
	Shift  string  `json:"shift"`
	Meters float64 `json:"meters"`
	Loom   string  `json:"loom"`
	LoomID string  `json:"loom_id"`
}

// SalarySummary carries the backend-computed period totals. They are trusted
// as given; the client never recomputes salary.
type SalarySummary struct {
	TotalMeters float64 `json:"total_meters"`
	TotalSalary float64 `json:"total_salary"`
}

// SalaryResponse is the full payload of GET /salary/calculate.
type SalaryResponse struct {
	Details []SalaryDetail `json:"details"`
	Summary SalarySummary  `json:"summary"`
}

// SalarySlipArchive is the document written to the archive collection each
// time a slip is generated.
type SalarySlipArchive struct {
	WorkerID    string    `bson:"worker_id" json:"worker_id"`
	WorkerName  string    `bson:"worker_name" json:"worker_name"`
	StartDate   string    `bson:"start_date" json:"start_date"`
	EndDate     string    `bson:"end_date" json:"end_date"`
	TotalMeters float64   `bson:"total_meters" json:"total_meters"`
	TotalSalary float64   `bson:"total_salary" json:"total_salary"`
	AvgRate     float64   `bson:"avg_rate" json:"avg_rate"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
}

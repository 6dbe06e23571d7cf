// Package salary assembles printable salary slips: the backend computes the
// period totals, this service pivots the detail lines into the date x loom
// grid and optionally archives/exports the result.
package salary

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/analytics"
	"github.com/loomworks/loomdesk/internal/domain/models"
)

// API is the slice of the backend client this service needs.
type API interface {
	CalculateSalary(ctx context.Context, workerID, startDate, endDate string) (*models.SalaryResponse, error)
}

// Archiver persists a record of each generated slip.
type Archiver interface {
	SaveSlip(ctx context.Context, slip models.SalarySlipArchive) error
}

// Exporter appends slip summary rows to an external sheet.
type Exporter interface {
	AppendSlipRow(ctx context.Context, slip models.SalarySlipArchive) error
}

// Slip is a fully assembled salary slip ready for rendering.
type Slip struct {
	WorkerID    string
	WorkerName  string
	StartDate   string
	EndDate     string
	Grid        analytics.Grid
	GeneratedAt time.Time
}

// Service builds slips. Archiver and Exporter may be nil when the optional
// subsystems are not configured.
type Service struct {
	api      API
	archive  Archiver
	exporter Exporter
	logger   *zap.Logger
}

// NewService wires a new salary service instance.
func NewService(api API, archive Archiver, exporter Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, archive: archive, exporter: exporter, logger: logger}
}

// BuildSlip fetches the salary calculation for one worker and period and
// pivots it into the printable grid. Archive and export failures are logged
// but never fail the slip itself.
func (s *Service) BuildSlip(ctx context.Context, workerID, workerName, startDate, endDate string) (*Slip, error) {
	if strings.TrimSpace(workerID) == "" {
		return nil, errors.New("worker is required")
	}
	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return nil, errors.New("start and end dates are required")
	}

	resp, err := s.api.CalculateSalary(ctx, workerID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	grid := analytics.SalaryGrid(resp.Details, resp.Summary, analytics.GridOptions{})

	slip := &Slip{
		WorkerID:    workerID,
		WorkerName:  workerName,
		StartDate:   startDate,
		EndDate:     endDate,
		Grid:        grid,
		GeneratedAt: time.Now(),
	}

	s.record(ctx, slip)
	return slip, nil
}

func (s *Service) record(ctx context.Context, slip *Slip) {
	if s.archive == nil && s.exporter == nil {
		return
	}

	doc := models.SalarySlipArchive{
		WorkerID:    slip.WorkerID,
		WorkerName:  slip.WorkerName,
		StartDate:   slip.StartDate,
		EndDate:     slip.EndDate,
		TotalMeters: slip.Grid.TotalMeters,
		TotalSalary: slip.Grid.TotalSalary,
		AvgRate:     slip.Grid.AvgRate,
		GeneratedAt: slip.GeneratedAt,
	}

	if s.archive != nil {
		if err := s.archive.SaveSlip(ctx, doc); err != nil {
			s.logger.Error("failed archiving salary slip", zap.Error(err), zap.String("worker_id", slip.WorkerID))
		}
	}
	if s.exporter != nil {
		if err := s.exporter.AppendSlipRow(ctx, doc); err != nil {
			s.logger.Error("failed exporting salary slip", zap.Error(err), zap.String("worker_id", slip.WorkerID))
		}
	}
}

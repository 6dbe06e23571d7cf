// Package production orchestrates production entry, history and analytics
// calls against the backend. Within one user action the refresh fetch is
// issued only after the mutating call has returned, so views never show
// stale data for their own edits.
package production

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/domain/models"
	"github.com/loomworks/loomdesk/pkg/clients/loomapi"
)

// API is the slice of the backend client this service needs.
type API interface {
	AddProduction(ctx context.Context, entry models.ProductionEntry) (*models.ProductionRecord, error)
	ProductionHistory(ctx context.Context, query loomapi.HistoryQuery) ([]models.ProductionHistoryItem, error)
	ProductionAnalytics(ctx context.Context, startDate, endDate string) (*models.ProductionAnalytics, error)
	UpdateProduction(ctx context.Context, id string, payload models.ProductionUpdate) (*models.ProductionRecord, error)
	DeleteProduction(ctx context.Context, id string) error
}

// Service wraps the production endpoints and keeps the last analytics
// snapshot in memory for the reports view.
type Service struct {
	api    API
	logger *zap.Logger

	mu         sync.RWMutex
	snapshot   *models.ProductionAnalytics
	snapshotAt time.Time
}

// NewService wires a new production service instance.
func NewService(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// Submit validates and records one production entry.
func (s *Service) Submit(ctx context.Context, entry models.ProductionEntry) (*models.ProductionRecord, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	record, err := s.api.AddProduction(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.logger.Info("production recorded",
		zap.String("record_id", record.ID),
		zap.String("worker_id", entry.WorkerID),
		zap.String("date", entry.Date),
		zap.Float64("meters", entry.Meters))
	return record, nil
}

// History fetches enriched history rows for the given filter.
func (s *Service) History(ctx context.Context, query loomapi.HistoryQuery) ([]models.ProductionHistoryItem, error) {
	return s.api.ProductionHistory(ctx, query)
}

// Update applies a partial update to an existing record.
func (s *Service) Update(ctx context.Context, id string, payload models.ProductionUpdate) (*models.ProductionRecord, error) {
	return s.api.UpdateProduction(ctx, id, payload)
}

// Remove deletes a production record.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.api.DeleteProduction(ctx, id)
}

// Analytics returns the pre-aggregated summary for the period, or nil when
// the endpoint is unavailable. Absence is a tolerated product state, not an
// error: the view degrades to "analytics not available".
func (s *Service) Analytics(ctx context.Context, startDate, endDate string) *models.ProductionAnalytics {
	snapshot, err := s.api.ProductionAnalytics(ctx, startDate, endDate)
	if err != nil {
		s.logger.Debug("analytics unavailable", zap.Error(err))
		return s.cachedSnapshot()
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.snapshotAt = time.Now()
	s.mu.Unlock()

	return snapshot
}

// RefreshSnapshot re-fetches the analytics snapshot for the trailing window.
// Used by the cron scheduler; failures are logged and the previous snapshot
// is kept.
func (s *Service) RefreshSnapshot(ctx context.Context, windowDays int) {
	end := time.Now()
	start := end.AddDate(0, 0, -windowDays)

	snapshot, err := s.api.ProductionAnalytics(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		s.logger.Debug("scheduled analytics refresh failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.snapshotAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("analytics snapshot refreshed",
		zap.Float64("total_meters", snapshot.Summary.TotalMeters),
		zap.Int("active_workers", snapshot.Summary.ActiveWorkers))
}

// SnapshotAge reports when the cached snapshot was taken; zero when none.
func (s *Service) SnapshotAge() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotAt
}

func (s *Service) cachedSnapshot() *models.ProductionAnalytics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func validateEntry(entry models.ProductionEntry) error {
	switch {
	case strings.TrimSpace(entry.WorkerID) == "":
		return errValidation("worker is required")
	case strings.TrimSpace(entry.LoomID) == "":
		return errValidation("loom is required")
	case strings.TrimSpace(entry.Date) == "":
		return errValidation("date is required")
	case entry.Shift != models.ShiftDay && entry.Shift != models.ShiftNight:
		return errValidation("shift must be Day or Night")
	case entry.Meters <= 0:
		return errValidation("meters must be greater than zero")
	case entry.Rate <= 0:
		return errValidation("rate must be greater than zero")
	}
	return nil
}

// ValidationError marks a client-side check that failed before any request
// was sent.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func errValidation(msg string) error { return ValidationError(msg) }

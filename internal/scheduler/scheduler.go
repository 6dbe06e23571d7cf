package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/config"
	"github.com/loomworks/loomdesk/internal/service/production"
	"github.com/loomworks/loomdesk/internal/session"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron          *cron.Cron
	productionSvc *production.Service
	sessions      *session.Store
	cfg           config.AnalyticsConfig
	logger        *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.AnalyticsConfig, productionSvc *production.Service, sessions *session.Store, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:          cron.New(),
		productionSvc: productionSvc,
		sessions:      sessions,
		cfg:           cfg,
		logger:        logger,
	}
}

// Start registers the analytics refresh job and starts the cron engine.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.refreshAnalytics)
	if err != nil {
		s.logger.Error("failed to schedule analytics refresh", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) refreshAnalytics() {
	// The backend rejects unauthenticated calls; skip until someone logs in.
	if s.sessions.State() != session.Authenticated {
		s.logger.Debug("skipping analytics refresh, no active session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.productionSvc.RefreshSnapshot(ctx, s.cfg.WindowDays)
}

// Package catalog orchestrates the worker registry and the shed/loom
// hierarchy. Both lists are caches of backend state: they are replaced
// wholesale on refresh and appended to only after the backend confirms a
// mutation. No client-side reconciliation of concurrent edits is attempted.
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/loomworks/loomdesk/internal/domain/models"
)

// API is the slice of the backend client the catalog needs.
type API interface {
	ListWorkers(ctx context.Context) ([]models.Worker, error)
	CreateWorker(ctx context.Context, payload models.WorkerCreate) (*models.Worker, error)
	UpdateWorker(ctx context.Context, id string, payload models.WorkerUpdate) (*models.Worker, error)
	DeleteWorker(ctx context.Context, id string) error
	ShedHierarchy(ctx context.Context) ([]models.Shed, error)
	CreateShed(ctx context.Context, name string) (*models.Shed, error)
	CreateLoom(ctx context.Context, shedID, loomNumber string) (*models.Loom, error)
}

// Service caches the catalog snapshots behind a mutex.
type Service struct {
	api    API
	logger *zap.Logger

	mu      sync.RWMutex
	workers []models.Worker
	sheds   []models.Shed
}

// NewService wires a new catalog service instance.
func NewService(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// Refresh fetches the worker list and shed hierarchy concurrently; the two
// fetches are independent and carry no ordering requirement between them.
// The cache is replaced only when both succeed.
func (s *Service) Refresh(ctx context.Context) error {
	var workers []models.Worker
	var sheds []models.Shed

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		workers, err = s.api.ListWorkers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sheds, err = s.api.ShedHierarchy(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.workers = workers
	s.sheds = sheds
	s.mu.Unlock()

	s.logger.Debug("catalog refreshed",
		zap.Int("workers", len(workers)),
		zap.Int("sheds", len(sheds)))
	return nil
}

// Workers returns a copy of the cached worker list.
func (s *Service) Workers() []models.Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Worker(nil), s.workers...)
}

// Sheds returns a copy of the cached shed hierarchy.
func (s *Service) Sheds() []models.Shed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Shed, len(s.sheds))
	for i, shed := range s.sheds {
		out[i] = shed
		out[i].Looms = append([]models.Loom(nil), shed.Looms...)
	}
	return out
}

// FindLoom resolves a loom id against the cached hierarchy, returning the
// loom and its owning shed.
func (s *Service) FindLoom(loomID string) (models.Shed, models.Loom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, shed := range s.sheds {
		for _, loom := range shed.Looms {
			if loom.ID == loomID {
				return shed, loom, true
			}
		}
	}
	return models.Shed{}, models.Loom{}, false
}

// FindWorker resolves a worker id against the cached list.
func (s *Service) FindWorker(workerID string) (models.Worker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, worker := range s.workers {
		if worker.ID == workerID {
			return worker, true
		}
	}
	return models.Worker{}, false
}

// AddWorker registers a worker and appends it to the cache once confirmed.
func (s *Service) AddWorker(ctx context.Context, name, phone string) (*models.Worker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("worker name is required")
	}

	worker, err := s.api.CreateWorker(ctx, models.WorkerCreate{Name: name, Phone: strings.TrimSpace(phone)})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.workers = append(s.workers, *worker)
	s.mu.Unlock()

	s.logger.Info("worker registered", zap.String("worker_id", worker.ID), zap.String("name", worker.Name))
	return worker, nil
}

// UpdateWorker applies a partial update and patches the cache in place.
func (s *Service) UpdateWorker(ctx context.Context, id string, payload models.WorkerUpdate) (*models.Worker, error) {
	worker, err := s.api.UpdateWorker(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.workers {
		if s.workers[i].ID == id {
			s.workers[i] = *worker
			break
		}
	}
	s.mu.Unlock()

	return worker, nil
}

// RemoveWorker deletes a worker and drops it from the cache.
func (s *Service) RemoveWorker(ctx context.Context, id string) error {
	if err := s.api.DeleteWorker(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.workers {
		if s.workers[i].ID == id {
			s.workers = append(s.workers[:i], s.workers[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.logger.Info("worker removed", zap.String("worker_id", id))
	return nil
}

// AddShed creates a shed and appends it to the cached hierarchy.
func (s *Service) AddShed(ctx context.Context, name string) (*models.Shed, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("shed name is required")
	}

	shed, err := s.api.CreateShed(ctx, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sheds = append(s.sheds, *shed)
	s.mu.Unlock()

	s.logger.Info("shed added", zap.String("shed_id", shed.ID), zap.String("name", shed.Name))
	return shed, nil
}

// AddLoom creates a loom and appends it to its shed's cached loom list.
func (s *Service) AddLoom(ctx context.Context, shedID, loomNumber string) (*models.Loom, error) {
	loomNumber = strings.TrimSpace(loomNumber)
	if shedID == "" || loomNumber == "" {
		return nil, errors.New("shed and loom number are required")
	}

	loom, err := s.api.CreateLoom(ctx, shedID, loomNumber)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.sheds {
		if s.sheds[i].ID == shedID {
			s.sheds[i].Looms = append(s.sheds[i].Looms, *loom)
			break
		}
	}
	s.mu.Unlock()

	s.logger.Info("loom added", zap.String("shed_id", shedID), zap.String("loom_number", loom.LoomNumber))
	return loom, nil
}

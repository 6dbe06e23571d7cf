package production

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/loomdesk/internal/domain/models"
	"github.com/loomworks/loomdesk/pkg/clients/loomapi"
)

type fakeAPI struct {
	addErr       error
	analytics    *models.ProductionAnalytics
	analyticsErr error

	added []models.ProductionEntry
}

func (f *fakeAPI) AddProduction(ctx context.Context, entry models.ProductionEntry) (*models.ProductionRecord, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, entry)
	return &models.ProductionRecord{ID: "p1", Date: entry.Date, Shift: entry.Shift, Meters: entry.Meters}, nil
}

func (f *fakeAPI) ProductionHistory(ctx context.Context, query loomapi.HistoryQuery) ([]models.ProductionHistoryItem, error) {
	return nil, nil
}

func (f *fakeAPI) ProductionAnalytics(ctx context.Context, startDate, endDate string) (*models.ProductionAnalytics, error) {
	if f.analyticsErr != nil {
		return nil, f.analyticsErr
	}
	return f.analytics, nil
}

func (f *fakeAPI) UpdateProduction(ctx context.Context, id string, payload models.ProductionUpdate) (*models.ProductionRecord, error) {
	return &models.ProductionRecord{ID: id}, nil
}

func (f *fakeAPI) DeleteProduction(ctx context.Context, id string) error {
	return nil
}

func validEntry() models.ProductionEntry {
	return models.ProductionEntry{
		WorkerID:   "w1",
		LoomID:     "l1",
		ShedName:   "A",
		LoomNumber: "2",
		Date:       "2024-01-05",
		Shift:      models.ShiftDay,
		Meters:     12.5,
		Rate:       4.5,
	}
}

func TestSubmit(t *testing.T) {
	t.Run("records a valid entry", func(t *testing.T) {
		api := &fakeAPI{}
		svc := NewService(api, nil)

		record, err := svc.Submit(context.Background(), validEntry())
		require.NoError(t, err)
		assert.Equal(t, "p1", record.ID)
		require.Len(t, api.added, 1)
		assert.Equal(t, 12.5, api.added[0].Meters)
	})

	t.Run("validation failures never reach the backend", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*models.ProductionEntry)
		}{
			{"missing worker", func(e *models.ProductionEntry) { e.WorkerID = " " }},
			{"missing loom", func(e *models.ProductionEntry) { e.LoomID = "" }},
			{"missing date", func(e *models.ProductionEntry) { e.Date = "" }},
			{"bad shift", func(e *models.ProductionEntry) { e.Shift = "Evening" }},
			{"zero meters", func(e *models.ProductionEntry) { e.Meters = 0 }},
			{"negative rate", func(e *models.ProductionEntry) { e.Rate = -1 }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				api := &fakeAPI{}
				svc := NewService(api, nil)

				entry := validEntry()
				tc.mutate(&entry)

				_, err := svc.Submit(context.Background(), entry)
				require.Error(t, err)

				var verr ValidationError
				assert.True(t, errors.As(err, &verr))
				assert.Empty(t, api.added)
			})
		}
	})

	t.Run("backend errors pass through", func(t *testing.T) {
		api := &fakeAPI{addErr: errors.New("boom")}
		svc := NewService(api, nil)

		_, err := svc.Submit(context.Background(), validEntry())
		assert.EqualError(t, err, "boom")
	})
}

func TestAnalytics(t *testing.T) {
	t.Run("nil when unavailable and nothing cached", func(t *testing.T) {
		api := &fakeAPI{analyticsErr: errors.New("404")}
		svc := NewService(api, nil)

		assert.Nil(t, svc.Analytics(context.Background(), "2024-01-01", "2024-01-31"))
		assert.True(t, svc.SnapshotAge().IsZero())
	})

	t.Run("falls back to the cached snapshot on failure", func(t *testing.T) {
		api := &fakeAPI{analytics: &models.ProductionAnalytics{
			Summary: models.AnalyticsSummary{TotalMeters: 100, ActiveWorkers: 3},
		}}
		svc := NewService(api, nil)

		first := svc.Analytics(context.Background(), "2024-01-01", "2024-01-31")
		require.NotNil(t, first)
		assert.False(t, svc.SnapshotAge().IsZero())

		api.analyticsErr = errors.New("endpoint gone")
		second := svc.Analytics(context.Background(), "2024-02-01", "2024-02-29")
		require.NotNil(t, second)
		assert.Equal(t, 100.0, second.Summary.TotalMeters)
	})
}

func TestRefreshSnapshot(t *testing.T) {
	t.Run("stores the fetched snapshot", func(t *testing.T) {
		api := &fakeAPI{analytics: &models.ProductionAnalytics{
			Summary: models.AnalyticsSummary{TotalMeters: 42},
		}}
		svc := NewService(api, nil)

		svc.RefreshSnapshot(context.Background(), 30)
		assert.False(t, svc.SnapshotAge().IsZero())

		api.analyticsErr = errors.New("down")
		got := svc.Analytics(context.Background(), "2024-01-01", "2024-01-31")
		require.NotNil(t, got)
		assert.Equal(t, 42.0, got.Summary.TotalMeters)
	})

	t.Run("keeps the previous snapshot on failure", func(t *testing.T) {
		api := &fakeAPI{analytics: &models.ProductionAnalytics{
			Summary: models.AnalyticsSummary{TotalMeters: 42},
		}}
		svc := NewService(api, nil)
		svc.RefreshSnapshot(context.Background(), 30)
		taken := svc.SnapshotAge()

		api.analyticsErr = errors.New("down")
		svc.RefreshSnapshot(context.Background(), 30)
		assert.Equal(t, taken, svc.SnapshotAge())
	})
}

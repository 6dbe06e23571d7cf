package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/loomdesk/internal/domain/models"
)

type fakeAPI struct {
	workers []models.Worker
	sheds   []models.Shed

	listErr   error
	shedsErr  error
	createErr error

	createdWorkers []models.WorkerCreate
	deletedWorkers []string
}

func (f *fakeAPI) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	return f.workers, f.listErr
}

func (f *fakeAPI) CreateWorker(ctx context.Context, payload models.WorkerCreate) (*models.Worker, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdWorkers = append(f.createdWorkers, payload)
	return &models.Worker{ID: "w-new", Name: payload.Name, Phone: payload.Phone, IsActive: true}, nil
}

func (f *fakeAPI) UpdateWorker(ctx context.Context, id string, payload models.WorkerUpdate) (*models.Worker, error) {
	updated := models.Worker{ID: id, Name: "Updated", IsActive: true}
	if payload.Name != nil {
		updated.Name = *payload.Name
	}
	return &updated, nil
}

func (f *fakeAPI) DeleteWorker(ctx context.Context, id string) error {
	f.deletedWorkers = append(f.deletedWorkers, id)
	return nil
}

func (f *fakeAPI) ShedHierarchy(ctx context.Context) ([]models.Shed, error) {
	return f.sheds, f.shedsErr
}

func (f *fakeAPI) CreateShed(ctx context.Context, name string) (*models.Shed, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Shed{ID: "s-new", Name: name}, nil
}

func (f *fakeAPI) CreateLoom(ctx context.Context, shedID, loomNumber string) (*models.Loom, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Loom{ID: "l-new", LoomNumber: loomNumber}, nil
}

func TestRefresh(t *testing.T) {
	t.Run("populates both caches", func(t *testing.T) {
		api := &fakeAPI{
			workers: []models.Worker{{ID: "w1", Name: "Ravi"}},
			sheds:   []models.Shed{{ID: "s1", Name: "A", Looms: []models.Loom{{ID: "l1", LoomNumber: "2"}}}},
		}
		svc := NewService(api, nil)

		require.NoError(t, svc.Refresh(context.Background()))
		assert.Len(t, svc.Workers(), 1)
		assert.Len(t, svc.Sheds(), 1)
	})

	t.Run("keeps the old cache when a fetch fails", func(t *testing.T) {
		api := &fakeAPI{workers: []models.Worker{{ID: "w1", Name: "Ravi"}}}
		svc := NewService(api, nil)
		require.NoError(t, svc.Refresh(context.Background()))

		api.shedsErr = errors.New("backend down")
		api.workers = nil
		require.Error(t, svc.Refresh(context.Background()))
		assert.Len(t, svc.Workers(), 1)
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		api := &fakeAPI{workers: []models.Worker{{ID: "w1", Name: "Ravi"}}}
		svc := NewService(api, nil)
		require.NoError(t, svc.Refresh(context.Background()))

		workers := svc.Workers()
		workers[0].Name = "tampered"
		assert.Equal(t, "Ravi", svc.Workers()[0].Name)
	})
}

func TestLookups(t *testing.T) {
	api := &fakeAPI{
		workers: []models.Worker{{ID: "w1", Name: "Ravi"}},
		sheds: []models.Shed{
			{ID: "s1", Name: "A", Looms: []models.Loom{{ID: "l1", LoomNumber: "2"}}},
			{ID: "s2", Name: "B", Looms: []models.Loom{{ID: "l2", LoomNumber: "10"}}},
		},
	}
	svc := NewService(api, nil)
	require.NoError(t, svc.Refresh(context.Background()))

	t.Run("finds a loom with its owning shed", func(t *testing.T) {
		shed, loom, ok := svc.FindLoom("l2")
		require.True(t, ok)
		assert.Equal(t, "B", shed.Name)
		assert.Equal(t, "10", loom.LoomNumber)
	})

	t.Run("reports unknown looms", func(t *testing.T) {
		_, _, ok := svc.FindLoom("nope")
		assert.False(t, ok)
	})

	t.Run("finds a worker by id", func(t *testing.T) {
		worker, ok := svc.FindWorker("w1")
		require.True(t, ok)
		assert.Equal(t, "Ravi", worker.Name)
	})
}

func TestAddWorker(t *testing.T) {
	t.Run("rejects a blank name without calling the backend", func(t *testing.T) {
		api := &fakeAPI{}
		svc := NewService(api, nil)

		_, err := svc.AddWorker(context.Background(), "   ", "")
		require.Error(t, err)
		assert.Empty(t, api.createdWorkers)
	})

	t.Run("appends to the cache only after confirmation", func(t *testing.T) {
		api := &fakeAPI{}
		svc := NewService(api, nil)

		worker, err := svc.AddWorker(context.Background(), " Ravi ", "99999")
		require.NoError(t, err)
		assert.Equal(t, "Ravi", worker.Name)
		assert.Len(t, svc.Workers(), 1)
	})

	t.Run("leaves the cache untouched on backend failure", func(t *testing.T) {
		api := &fakeAPI{createErr: errors.New("boom")}
		svc := NewService(api, nil)

		_, err := svc.AddWorker(context.Background(), "Ravi", "")
		require.Error(t, err)
		assert.Empty(t, svc.Workers())
	})
}

func TestUpdateAndRemoveWorker(t *testing.T) {
	api := &fakeAPI{workers: []models.Worker{{ID: "w1", Name: "Ravi"}, {ID: "w2", Name: "Sita"}}}
	svc := NewService(api, nil)
	require.NoError(t, svc.Refresh(context.Background()))

	name := "Ravi K"
	_, err := svc.UpdateWorker(context.Background(), "w1", models.WorkerUpdate{Name: &name})
	require.NoError(t, err)

	worker, ok := svc.FindWorker("w1")
	require.True(t, ok)
	assert.Equal(t, "Ravi K", worker.Name)

	require.NoError(t, svc.RemoveWorker(context.Background(), "w1"))
	assert.Equal(t, []string{"w1"}, api.deletedWorkers)
	_, ok = svc.FindWorker("w1")
	assert.False(t, ok)
	assert.Len(t, svc.Workers(), 1)
}

func TestShedAndLoomCreation(t *testing.T) {
	t.Run("new loom lands in its shed's cached list", func(t *testing.T) {
		api := &fakeAPI{sheds: []models.Shed{{ID: "s1", Name: "A"}}}
		svc := NewService(api, nil)
		require.NoError(t, svc.Refresh(context.Background()))

		loom, err := svc.AddLoom(context.Background(), "s1", " 12 ")
		require.NoError(t, err)
		assert.Equal(t, "12", loom.LoomNumber)

		sheds := svc.Sheds()
		require.Len(t, sheds, 1)
		require.Len(t, sheds[0].Looms, 1)
		assert.Equal(t, "12", sheds[0].Looms[0].LoomNumber)
	})

	t.Run("rejects missing shed or loom number", func(t *testing.T) {
		svc := NewService(&fakeAPI{}, nil)
		_, err := svc.AddLoom(context.Background(), "", "12")
		assert.Error(t, err)
		_, err = svc.AddLoom(context.Background(), "s1", "  ")
		assert.Error(t, err)
	})

	t.Run("new shed is appended", func(t *testing.T) {
		svc := NewService(&fakeAPI{}, nil)
		shed, err := svc.AddShed(context.Background(), "C")
		require.NoError(t, err)
		assert.Equal(t, "C", shed.Name)
		assert.Len(t, svc.Sheds(), 1)
	})
}

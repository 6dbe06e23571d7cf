package loomapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/loomdesk/internal/domain/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	t.Run("sends form encoded credentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/login", r.URL.Path)
			assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "boss@mill.in", r.PostForm.Get("username"))
			assert.Equal(t, "secret", r.PostForm.Get("password"))

			writeJSON(w, http.StatusOK, models.LoginResponse{AccessToken: "tok", TokenType: "bearer"})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		resp, err := client.Login(context.Background(), "boss@mill.in", "secret")
		require.NoError(t, err)
		assert.Equal(t, "tok", resp.AccessToken)
	})

	t.Run("surfaces the detail message on failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, apiError{Detail: "Invalid credentials"})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		_, err := client.Login(context.Background(), "x", "y")
		require.Error(t, err)
		assert.EqualError(t, err, "Invalid credentials")
	})

	t.Run("falls back to the generic login message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		_, err := client.Login(context.Background(), "x", "y")
		require.Error(t, err)
		assert.EqualError(t, err, "Login failed")
	})
}

func TestBearerToken(t *testing.T) {
	t.Run("authenticated requests carry the token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, []models.Worker{})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, staticToken("tok-123"))
		_, err := client.ListWorkers(context.Background())
		require.NoError(t, err)
	})

	t.Run("no header without a token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, []models.Worker{})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		_, err := client.ListWorkers(context.Background())
		require.NoError(t, err)
	})

	t.Run("401 maps to ErrUnauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, apiError{Detail: "Token expired"})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, staticToken("stale"))
		_, err := client.Me(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnauthorized))
		assert.Contains(t, err.Error(), "Token expired")
	})
}

func TestErrorNormalization(t *testing.T) {
	t.Run("missing detail falls back to HTTP status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, apiError{})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		_, err := client.ListWorkers(context.Background())
		require.Error(t, err)
		assert.EqualError(t, err, "HTTP 500")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})
}

func TestWorkers(t *testing.T) {
	t.Run("create posts the payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/workers/", r.URL.Path)

			var payload models.WorkerCreate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Ravi", payload.Name)

			writeJSON(w, http.StatusOK, models.Worker{ID: "w1", Name: payload.Name, IsActive: true})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, staticToken("tok"))
		worker, err := client.CreateWorker(context.Background(), models.WorkerCreate{Name: "Ravi"})
		require.NoError(t, err)
		assert.Equal(t, "w1", worker.ID)
	})

	t.Run("partial update omits unset fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/workers/w1", r.URL.Path)

			var raw map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			assert.Contains(t, raw, "is_active")
			assert.NotContains(t, raw, "name")
			assert.NotContains(t, raw, "phone")

			writeJSON(w, http.StatusOK, models.Worker{ID: "w1", Name: "Ravi"})
		}))
		defer srv.Close()

		inactive := false
		client := NewClient(srv.URL, staticToken("tok"))
		_, err := client.UpdateWorker(context.Background(), "w1", models.WorkerUpdate{IsActive: &inactive})
		require.NoError(t, err)
	})
}

func TestShedsAndLooms(t *testing.T) {
	t.Run("creation uses query parameters", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/sheds/":
				assert.Equal(t, "A", r.URL.Query().Get("name"))
				writeJSON(w, http.StatusOK, models.Shed{ID: "s1", Name: "A"})
			case "/looms/":
				assert.Equal(t, "s1", r.URL.Query().Get("shed_id"))
				assert.Equal(t, "12", r.URL.Query().Get("loom_num"))
				writeJSON(w, http.StatusOK, models.Loom{ID: "l1", LoomNumber: "12"})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer srv.Close()

		client := NewClient(srv.URL, staticToken("tok"))

		shed, err := client.CreateShed(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, "s1", shed.ID)

		loom, err := client.CreateLoom(context.Background(), "s1", "12")
		require.NoError(t, err)
		assert.Equal(t, "12", loom.LoomNumber)
	})
}

func TestProductionHistory(t *testing.T) {
	t.Run("optional filters are only sent when set", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "2024-01-01", q.Get("start_date"))
			assert.Equal(t, "2024-01-31", q.Get("end_date"))
			assert.Equal(t, "w1", q.Get("worker_id"))
			assert.False(t, q.Has("loom_id"))
			writeJSON(w, http.StatusOK, []models.ProductionHistoryItem{})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, staticToken("tok"))
		_, err := client.ProductionHistory(context.Background(), HistoryQuery{
			StartDate: "2024-01-01",
			EndDate:   "2024-01-31",
			WorkerID:  "w1",
		})
		require.NoError(t, err)
	})
}

func TestCalculateSalary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/salary/calculate", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "w1", q.Get("worker_id"))
		writeJSON(w, http.StatusOK, models.SalaryResponse{
			Details: []models.SalaryDetail{{Date: "2024-01-05", Loom: "2", Meters: 10}},
			Summary: models.SalarySummary{TotalMeters: 10, TotalSalary: 45},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"))
	resp, err := client.CalculateSalary(context.Background(), "w1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, 45.0, resp.Summary.TotalSalary)
}

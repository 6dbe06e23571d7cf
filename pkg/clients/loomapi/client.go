package loomapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/loomworks/loomdesk/internal/domain/models"
)

// TokenSource supplies the bearer token for authenticated requests. An empty
// token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is a typed wrapper around the loom backend's REST API. All methods
// are safe for concurrent use; the client itself holds no mutable state.
type Client struct {
	httpClient *resty.Client
	tokens     TokenSource
}

// staticToken is a TokenSource returning a fixed value.
type staticToken string

func (t staticToken) Token() string { return string(t) }

// NewClient builds an API client rooted at baseURL. Trailing slashes on the
// base URL are trimmed so endpoint paths compose predictably.
func NewClient(baseURL string, tokens TokenSource) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if tokens == nil {
		tokens = staticToken("")
	}

	return &Client{httpClient: restyClient, tokens: tokens}
}

// request returns a prepared request carrying the bearer token when present.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.httpClient.R().SetContext(ctx)
	if token := c.tokens.Token(); token != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	return req
}

// Login exchanges credentials for a bearer token. The backend expects a
// form-encoded body with username/password fields.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	result := new(models.LoginResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"username": email,
			"password": password,
		}).
		SetResult(result).
		SetError(apiErr).
		Post("/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	if err := normalize(resp, apiErr, "Login failed"); err != nil {
		return nil, err
	}

	return result, nil
}

// Me fetches the identity record for the current token.
func (c *Client) Me(ctx context.Context) (*models.UserInfo, error) {
	result := new(models.UserInfo)
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetResult(result).
		SetError(apiErr).
		Get("/auth/me")
	if err != nil {
		return nil, fmt.Errorf("fetch identity: %w", err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// ListWorkers returns every registered worker.
func (c *Client) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	var result []models.Worker
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetResult(&result).
		SetError(apiErr).
		Get("/workers/")
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateWorker registers a new worker.
func (c *Client) CreateWorker(ctx context.Context, payload models.WorkerCreate) (*models.Worker, error) {
	result := new(models.Worker)
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post("/workers/")
	if err != nil {
		return nil, fmt.Errorf("create worker: %w", err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateWorker applies a partial update to a worker.
func (c *Client) UpdateWorker(ctx context.Context, id string, payload models.WorkerUpdate) (*models.Worker, error) {
	result := new(models.Worker)
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Put(fmt.Sprintf("/workers/%s", url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("update worker %s: %w", id, err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteWorker removes a worker.
func (c *Client) DeleteWorker(ctx context.Context, id string) error {
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetError(apiErr).
		Delete(fmt.Sprintf("/workers/%s", url.PathEscape(id)))
	if err != nil {
		return fmt.Errorf("delete worker %s: %w", id, err)
	}
	return normalize(resp, apiErr, "")
}

// ShedHierarchy fetches all sheds with their looms as one nested snapshot.
func (c *Client) ShedHierarchy(ctx context.Context) ([]models.Shed, error) {
	var result []models.Shed
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetResult(&result).
		SetError(apiErr).
		Get("/sheds-looms/")
	if err != nil {
		return nil, fmt.Errorf("fetch shed hierarchy: %w", err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateShed adds a shed. The backend takes the name as a query parameter.
func (c *Client) CreateShed(ctx context.Context, name string) (*models.Shed, error) {
	result := new(models.Shed)
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetQueryParam("name", name).
		SetResult(result).
		SetError(apiErr).
		Post("/sheds/")
	if err != nil {
		return nil, fmt.Errorf("create shed: %w", err)
	}
	if err := normalize(resp, apiErr, "Failed to create shed"); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateLoom adds a loom to a shed.
func (c *Client) CreateLoom(ctx context.Context, shedID, loomNumber string) (*models.Loom, error) {
	result := new(models.Loom)
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"shed_id":  shedID,
			"loom_num": loomNumber,
		}).
		SetResult(result).
		SetError(apiErr).
		Post("/looms/")
	if err != nil {
		return nil, fmt.Errorf("create loom: %w", err)
	}
	if err := normalize(resp, apiErr, "Failed to create loom"); err != nil {
		return nil, err
	}

	return result, nil
}

// AddProduction records a production entry.
func (c *Client) AddProduction(ctx context.Context, entry models.ProductionEntry) (*models.ProductionRecord, error) {
	result := new(models.ProductionRecord)
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetBody(entry).
		SetResult(result).
		SetError(apiErr).
		Post("/production/")
	if err != nil {
		return nil, fmt.Errorf("add production: %w", err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// HistoryQuery filters the production history listing. Start and End are
// required ISO dates; WorkerID and LoomID narrow the result when set.
type HistoryQuery struct {
	StartDate string
	EndDate   string
	WorkerID  string
	LoomID    string
}

// ProductionHistory fetches enriched history rows for a period.
func (c *Client) ProductionHistory(ctx context.Context, query HistoryQuery) ([]models.ProductionHistoryItem, error) {
	var result []models.ProductionHistoryItem
	apiErr := new(apiError)

	req := c.request(ctx).
		SetQueryParam("start_date", query.StartDate).
		SetQueryParam("end_date", query.EndDate).
		SetResult(&result).
		SetError(apiErr)
	if query.WorkerID != "" {
		req.SetQueryParam("worker_id", query.WorkerID)
	}
	if query.LoomID != "" {
		req.SetQueryParam("loom_id", query.LoomID)
	}

	resp, err := req.Get("/production/history")
	if err != nil {
		return nil, fmt.Errorf("fetch production history: %w", err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// ProductionAnalytics fetches the optional pre-aggregated summary. Callers
// treat any failure as "analytics unavailable" rather than an error.
func (c *Client) ProductionAnalytics(ctx context.Context, startDate, endDate string) (*models.ProductionAnalytics, error) {
	result := new(models.ProductionAnalytics)
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetQueryParam("start_date", startDate).
		SetQueryParam("end_date", endDate).
		SetResult(result).
		SetError(apiErr).
		Get("/production/analytics")
	if err != nil {
		return nil, fmt.Errorf("fetch production analytics: %w", err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateProduction applies a partial update to a production record.
func (c *Client) UpdateProduction(ctx context.Context, id string, payload models.ProductionUpdate) (*models.ProductionRecord, error) {
	result := new(models.ProductionRecord)
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Put(fmt.Sprintf("/production/%s", url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("update production %s: %w", id, err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteProduction removes a production record.
func (c *Client) DeleteProduction(ctx context.Context, id string) error {
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetError(apiErr).
		Delete(fmt.Sprintf("/production/%s", url.PathEscape(id)))
	if err != nil {
		return fmt.Errorf("delete production %s: %w", id, err)
	}
	return normalize(resp, apiErr, "")
}

// CalculateSalary asks the backend for a worker's salary details and totals
// over a period. Totals are computed upstream and trusted as given.
func (c *Client) CalculateSalary(ctx context.Context, workerID, startDate, endDate string) (*models.SalaryResponse, error) {
	result := new(models.SalaryResponse)
	apiErr := new(apiError)

	resp, err := c.request(ctx).
		SetQueryParam("worker_id", workerID).
		SetQueryParam("start_date", startDate).
		SetQueryParam("end_date", endDate).
		SetResult(result).
		SetError(apiErr).
		Get("/salary/calculate")
	if err != nil {
		return nil, fmt.Errorf("calculate salary: %w", err)
	}
	if err := normalize(resp, apiErr, ""); err != nil {
		return nil, err
	}

	return result, nil
}

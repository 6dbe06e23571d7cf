package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/loomworks/loomdesk/internal/analytics"
	"github.com/loomworks/loomdesk/internal/domain/models"
	"github.com/loomworks/loomdesk/internal/service/catalog"
	"github.com/loomworks/loomdesk/internal/service/production"
	"github.com/loomworks/loomdesk/internal/session"
	"github.com/loomworks/loomdesk/pkg/clients/loomapi"
)

const isoDate = "2006-01-02"

// Leaderboard length on the reports page.
const topPerformerLimit = 10

// ProductionHandler serves the entry form and the reports page.
type ProductionHandler struct {
	catalog    *catalog.Service
	production *production.Service
	sessions   *session.Store
	logger     *zap.Logger
}

// NewProductionHandler constructs the production handler adapter.
func NewProductionHandler(catalogSvc *catalog.Service, productionSvc *production.Service, sessions *session.Store, logger *zap.Logger) *ProductionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionHandler{
		catalog:    catalogSvc,
		production: productionSvc,
		sessions:   sessions,
		logger:     logger,
	}
}

// EntryForm renders the daily production entry form.
func (h *ProductionHandler) EntryForm(c *gin.Context) {
	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		h.logger.Error("failed loading entry form data", zap.Error(err))
		c.HTML(http.StatusOK, "entry.tmpl", gin.H{
			"Error": err.Error(),
			"User":  currentUser(h.sessions),
		})
		return
	}

	c.HTML(http.StatusOK, "entry.tmpl", gin.H{
		"User":    currentUser(h.sessions),
		"Workers": h.catalog.Workers(),
		"Sheds":   h.catalog.Sheds(),
		"Today":   time.Now().Format(isoDate),
		"Error":   c.Query("err"),
		"Notice":  c.Query("msg"),
	})
}

// Submit records one production entry. The loom's shed name and number are
// resolved from the cached hierarchy so the backend receives the denormalized
// pair it expects.
func (h *ProductionHandler) Submit(c *gin.Context) {
	meters, err := parseFloatField(c.PostForm("meters"))
	if err != nil {
		redirectWithError(c, "/salary-entry", "meters must be a number")
		return
	}
	rate, err := parseFloatField(c.PostForm("rate"))
	if err != nil {
		redirectWithError(c, "/salary-entry", "rate must be a number")
		return
	}

	loomID := c.PostForm("loom_id")
	shed, loom, ok := h.catalog.FindLoom(loomID)
	if !ok {
		redirectWithError(c, "/salary-entry", "select a loom")
		return
	}

	entry := models.ProductionEntry{
		WorkerID:   c.PostForm("worker_id"),
		LoomID:     loomID,
		ShedName:   shed.Name,
		LoomNumber: loom.LoomNumber,
		Date:       c.PostForm("date"),
		Shift:      c.PostForm("shift"),
		Meters:     meters,
		Rate:       rate,
	}

	if _, err := h.production.Submit(c.Request.Context(), entry); err != nil {
		redirectWithError(c, "/salary-entry", err.Error())
		return
	}
	redirectWithNotice(c, "/salary-entry", "Production recorded")
}

// Reports renders the filtered history with client-side aggregates. The
// catalog snapshot (for the filter dropdowns) and the history rows are
// fetched concurrently; aggregation runs only after both have resolved.
func (h *ProductionHandler) Reports(c *gin.Context) {
	endDate := c.DefaultQuery("end_date", time.Now().Format(isoDate))
	startDate := c.DefaultQuery("start_date", time.Now().AddDate(0, 0, -30).Format(isoDate))
	workerID := c.Query("worker_id")
	loomID := c.Query("loom_id")
	search := strings.TrimSpace(c.Query("q"))

	var history []models.ProductionHistoryItem

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		return h.catalog.Refresh(gctx)
	})
	g.Go(func() error {
		var err error
		history, err = h.production.History(gctx, loomapi.HistoryQuery{
			StartDate: startDate,
			EndDate:   endDate,
			WorkerID:  workerID,
			LoomID:    loomID,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("failed loading reports", zap.Error(err))
		c.HTML(http.StatusOK, "reports.tmpl", gin.H{
			"Error":     err.Error(),
			"User":      currentUser(h.sessions),
			"StartDate": startDate,
			"EndDate":   endDate,
		})
		return
	}

	if search != "" {
		history = filterHistory(history, search)
	}

	trend := analytics.DailyTrend(history)
	top := analytics.TopPerformers(history, topPerformerLimit)

	var totalMeters, totalEarnings float64
	for _, point := range trend {
		totalMeters += point.Meters
		totalEarnings += point.Earnings
	}

	// Analytics degrades to nil when the endpoint is missing; the template
	// shows a "not available" note instead of an error.
	snapshot := h.production.Analytics(c.Request.Context(), startDate, endDate)

	c.HTML(http.StatusOK, "reports.tmpl", gin.H{
		"User":          currentUser(h.sessions),
		"StartDate":     startDate,
		"EndDate":       endDate,
		"WorkerID":      workerID,
		"LoomID":        loomID,
		"Search":        search,
		"Workers":       h.catalog.Workers(),
		"Sheds":         h.catalog.Sheds(),
		"History":       history,
		"Trend":         trend,
		"TopPerformers": top,
		"TotalMeters":   totalMeters,
		"TotalEarnings": totalEarnings,
		"Analytics":     snapshot,
		"Error":         c.Query("err"),
		"Notice":        c.Query("msg"),
	})
}

// Update applies a partial edit to a record, then returns to the reports
// page, which re-fetches after the mutation has completed.
func (h *ProductionHandler) Update(c *gin.Context) {
	payload := models.ProductionUpdate{}

	if date := strings.TrimSpace(c.PostForm("date")); date != "" {
		payload.Date = &date
	}
	if shift := c.PostForm("shift"); shift == models.ShiftDay || shift == models.ShiftNight {
		payload.Shift = &shift
	}
	if raw := c.PostForm("meters"); raw != "" {
		meters, err := parseFloatField(raw)
		if err != nil {
			redirectWithError(c, "/reports", "meters must be a number")
			return
		}
		payload.Meters = &meters
	}
	if raw := c.PostForm("rate"); raw != "" {
		rate, err := parseFloatField(raw)
		if err != nil {
			redirectWithError(c, "/reports", "rate must be a number")
			return
		}
		payload.Rate = &rate
	}

	if _, err := h.production.Update(c.Request.Context(), c.Param("id"), payload); err != nil {
		redirectWithError(c, "/reports", err.Error())
		return
	}
	redirectWithNotice(c, "/reports", "Entry updated")
}

// Delete removes a record, then returns to the reports page.
func (h *ProductionHandler) Delete(c *gin.Context) {
	if err := h.production.Remove(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/reports", err.Error())
		return
	}
	redirectWithNotice(c, "/reports", "Entry deleted")
}

// filterHistory keeps rows whose worker, loom or shed matches the search
// term, case-insensitively.
func filterHistory(history []models.ProductionHistoryItem, term string) []models.ProductionHistoryItem {
	term = strings.ToLower(term)
	out := make([]models.ProductionHistoryItem, 0, len(history))
	for _, item := range history {
		if strings.Contains(strings.ToLower(item.WorkerName), term) ||
			strings.Contains(strings.ToLower(item.LoomNumber), term) ||
			strings.Contains(strings.ToLower(item.ShedName), term) {
			out = append(out, item)
		}
	}
	return out
}

func parseFloatField(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

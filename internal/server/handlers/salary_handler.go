package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/analytics"
	"github.com/loomworks/loomdesk/internal/service/catalog"
	"github.com/loomworks/loomdesk/internal/service/salary"
	"github.com/loomworks/loomdesk/internal/session"
)

// SalaryHandler renders printable salary slips.
type SalaryHandler struct {
	catalog  *catalog.Service
	salary   *salary.Service
	sessions *session.Store
	logger   *zap.Logger
}

// NewSalaryHandler constructs the salary handler adapter.
func NewSalaryHandler(catalogSvc *catalog.Service, salarySvc *salary.Service, sessions *session.Store, logger *zap.Logger) *SalaryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalaryHandler{catalog: catalogSvc, salary: salarySvc, sessions: sessions, logger: logger}
}

// slipRow is one rendered grid row: the day/month label plus one formatted
// cell per loom column.
type slipRow struct {
	DateLabel string
	Cells     []string
}

// loomTotalRow pairs a loom label with its formatted column total.
type loomTotalRow struct {
	Loom  string
	Total string
}

// Slip builds and renders the salary slip for one worker and period.
func (h *SalaryHandler) Slip(c *gin.Context) {
	workerID := c.Query("worker_id")
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	workerName := c.Query("worker_name")
	if worker, ok := h.catalog.FindWorker(workerID); ok {
		workerName = worker.Name
	}

	slip, err := h.salary.BuildSlip(c.Request.Context(), workerID, workerName, startDate, endDate)
	if err != nil {
		h.logger.Warn("failed building salary slip", zap.String("worker_id", workerID), zap.Error(err))
		redirectWithError(c, "/reports", err.Error())
		return
	}

	grid := slip.Grid

	rows := make([]slipRow, 0, len(grid.Dates))
	for _, date := range grid.Dates {
		cells := make([]string, 0, len(grid.Looms))
		for _, loom := range grid.Looms {
			cells = append(cells, analytics.FormatCell(grid.Cells[date][loom]))
		}
		rows = append(rows, slipRow{DateLabel: analytics.FormatDayMonth(date), Cells: cells})
	}

	totals := make([]loomTotalRow, 0, len(grid.Looms))
	totalCells := make([]string, 0, len(grid.Looms))
	for _, loom := range grid.Looms {
		totals = append(totals, loomTotalRow{Loom: loom, Total: analytics.FormatTotal(grid.LoomTotals[loom])})
		totalCells = append(totalCells, analytics.FormatTotal(grid.LoomTotals[loom]))
	}

	c.HTML(http.StatusOK, "slip.tmpl", gin.H{
		"User":        currentUser(h.sessions),
		"WorkerName":  slip.WorkerName,
		"StartDate":   slip.StartDate,
		"EndDate":     slip.EndDate,
		"Looms":       grid.Looms,
		"Rows":        rows,
		"TotalCells":  totalCells,
		"LoomTotals":  totals,
		"TotalMeters": grid.TotalMeters,
		"TotalSalary": grid.TotalSalary,
		"AvgRate":     grid.AvgRate,
		"GeneratedAt": slip.GeneratedAt.Format("2006-01-02 15:04"),
	})
}

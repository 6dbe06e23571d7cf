package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/service/catalog"
	"github.com/loomworks/loomdesk/internal/session"
)

// DashboardHandler renders the shed/loom overview and handles hierarchy
// mutations.
type DashboardHandler struct {
	catalog  *catalog.Service
	sessions *session.Store
	logger   *zap.Logger
}

// NewDashboardHandler constructs the dashboard handler adapter.
func NewDashboardHandler(catalogSvc *catalog.Service, sessions *session.Store, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{catalog: catalogSvc, sessions: sessions, logger: logger}
}

// shedSummary is the per-shed row shown on the dashboard.
type shedSummary struct {
	ID        string
	Name      string
	LoomCount int
}

// Dashboard fetches the catalog snapshot and renders the overview.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		h.logger.Error("failed loading dashboard data", zap.Error(err))
		c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
			"Error": err.Error(),
			"User":  currentUser(h.sessions),
		})
		return
	}

	sheds := h.catalog.Sheds()
	summaries := make([]shedSummary, 0, len(sheds))
	totalLooms := 0
	for _, shed := range sheds {
		summaries = append(summaries, shedSummary{ID: shed.ID, Name: shed.Name, LoomCount: len(shed.Looms)})
		totalLooms += len(shed.Looms)
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"User":         currentUser(h.sessions),
		"IsAdmin":      h.sessions.IsAdmin(),
		"Sheds":        summaries,
		"ShedOptions":  sheds,
		"TotalSheds":   len(sheds),
		"TotalLooms":   totalLooms,
		"WorkersCount": len(h.catalog.Workers()),
		"Error":        c.Query("err"),
		"Notice":       c.Query("msg"),
	})
}

// CreateShed handles the add-shed form post.
func (h *DashboardHandler) CreateShed(c *gin.Context) {
	shed, err := h.catalog.AddShed(c.Request.Context(), c.PostForm("name"))
	if err != nil {
		redirectWithError(c, "/dashboard", err.Error())
		return
	}
	redirectWithNotice(c, "/dashboard", "Shed "+shed.Name+" added")
}

// CreateLoom handles the add-loom form post.
func (h *DashboardHandler) CreateLoom(c *gin.Context) {
	loom, err := h.catalog.AddLoom(c.Request.Context(), c.PostForm("shed_id"), c.PostForm("loom_number"))
	if err != nil {
		redirectWithError(c, "/dashboard", err.Error())
		return
	}
	redirectWithNotice(c, "/dashboard", "Loom "+loom.LoomNumber+" added")
}

func currentUser(sessions *session.Store) string {
	user, ok := sessions.Current()
	if !ok {
		return ""
	}
	return user.Email
}

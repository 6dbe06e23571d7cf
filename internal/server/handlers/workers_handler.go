package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/domain/models"
	"github.com/loomworks/loomdesk/internal/service/catalog"
	"github.com/loomworks/loomdesk/internal/session"
)

// WorkersHandler serves the worker registry pages.
type WorkersHandler struct {
	catalog  *catalog.Service
	sessions *session.Store
	logger   *zap.Logger
}

// NewWorkersHandler constructs the workers handler adapter.
func NewWorkersHandler(catalogSvc *catalog.Service, sessions *session.Store, logger *zap.Logger) *WorkersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkersHandler{catalog: catalogSvc, sessions: sessions, logger: logger}
}

// List renders the worker registry.
func (h *WorkersHandler) List(c *gin.Context) {
	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		h.logger.Error("failed loading workers", zap.Error(err))
		c.HTML(http.StatusOK, "workers.tmpl", gin.H{
			"Error": err.Error(),
			"User":  currentUser(h.sessions),
		})
		return
	}

	c.HTML(http.StatusOK, "workers.tmpl", gin.H{
		"User":    currentUser(h.sessions),
		"Workers": h.catalog.Workers(),
		"Error":   c.Query("err"),
		"Notice":  c.Query("msg"),
	})
}

// Create handles the register-worker form post.
func (h *WorkersHandler) Create(c *gin.Context) {
	worker, err := h.catalog.AddWorker(c.Request.Context(), c.PostForm("name"), c.PostForm("phone"))
	if err != nil {
		redirectWithError(c, "/workers", err.Error())
		return
	}
	redirectWithNotice(c, "/workers", worker.Name+" registered")
}

// Update handles the edit-worker form post. Only submitted fields are sent
// upstream; the is_active checkbox always carries a value.
func (h *WorkersHandler) Update(c *gin.Context) {
	id := c.Param("id")

	payload := models.WorkerUpdate{}
	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		payload.Name = &name
	}
	if phone, ok := c.GetPostForm("phone"); ok {
		trimmed := strings.TrimSpace(phone)
		payload.Phone = &trimmed
	}
	isActive := c.PostForm("is_active") == "on"
	payload.IsActive = &isActive

	if _, err := h.catalog.UpdateWorker(c.Request.Context(), id, payload); err != nil {
		redirectWithError(c, "/workers", err.Error())
		return
	}
	redirectWithNotice(c, "/workers", "Worker updated")
}

// Delete removes a worker.
func (h *WorkersHandler) Delete(c *gin.Context) {
	if err := h.catalog.RemoveWorker(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/workers", err.Error())
		return
	}
	redirectWithNotice(c, "/workers", "Worker removed")
}

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/server/handlers"
	"github.com/loomworks/loomdesk/internal/server/templates"
	"github.com/loomworks/loomdesk/internal/session"
)

// Handlers bundles the page handlers the router wires up.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Dashboard  *handlers.DashboardHandler
	Workers    *handlers.WorkersHandler
	Production *handlers.ProductionHandler
	Salary     *handlers.SalaryHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, sessions *session.Store, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.SetHTMLTemplate(templates.Must())

	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.POST("/logout", h.Auth.Logout)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Everything else requires an authenticated session.
	gated := r.Group("/", requireSession(sessions))
	gated.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	gated.GET("/dashboard", h.Dashboard.Dashboard)
	gated.POST("/sheds", h.Dashboard.CreateShed)
	gated.POST("/looms", h.Dashboard.CreateLoom)

	gated.GET("/workers", h.Workers.List)
	gated.POST("/workers", h.Workers.Create)
	gated.POST("/workers/:id/update", h.Workers.Update)
	gated.POST("/workers/:id/delete", h.Workers.Delete)

	gated.GET("/salary-entry", h.Production.EntryForm)
	gated.POST("/production", h.Production.Submit)
	gated.GET("/reports", h.Production.Reports)
	gated.POST("/production/:id/update", h.Production.Update)
	gated.POST("/production/:id/delete", h.Production.Delete)

	gated.GET("/salary-slip", h.Salary.Slip)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// requireSession redirects anonymous visitors to the login view.
func requireSession(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions.State() != session.Authenticated {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loomworks/loomdesk/internal/session"
)

// AuthHandler serves the login form and drives session transitions.
type AuthHandler struct {
	sessions *session.Store
	api      session.IdentityAPI
	logger   *zap.Logger
}

// NewAuthHandler constructs the auth handler adapter.
func NewAuthHandler(sessions *session.Store, api session.IdentityAPI, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{sessions: sessions, api: api, logger: logger}
}

// ShowLogin renders the login form. An already-authenticated visitor is sent
// straight to the dashboard.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if h.sessions.State() == session.Authenticated {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Error": c.Query("err"),
	})
}

// Login handles the credential form post.
func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if email == "" || password == "" {
		redirectWithError(c, "/login", "email and password are required")
		return
	}

	if err := h.sessions.Login(c.Request.Context(), h.api, email, password); err != nil {
		h.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
		redirectWithError(c, "/login", err.Error())
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout purges the session and returns to the login view. No backend
// round-trip is made.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Logout()
	c.Redirect(http.StatusFound, "/login")
}

// redirectWithError sends the browser back to path with a transient error
// message in the query string.
func redirectWithError(c *gin.Context, path, msg string) {
	c.Redirect(http.StatusFound, path+"?err="+url.QueryEscape(msg))
}

// redirectWithNotice sends the browser to path with a success notice.
func redirectWithNotice(c *gin.Context, path, msg string) {
	c.Redirect(http.StatusFound, path+"?msg="+url.QueryEscape(msg))
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/auth-shell/internal/dashboard"
	"github.com/gin-gonic/gin"
)

type dashboardLayout interface {
	View() (dashboard.View, bool)
	Logout(ctx context.Context)
}

type DashboardHandler struct {
	layout dashboardLayout
	logger *slog.Logger
}

func NewDashboardHandler(layout dashboardLayout, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		layout: layout,
		logger: logger.With("component", "dashboard_handler"),
	}
}

// GET /dashboard
func (h *DashboardHandler) Show(c *gin.Context) {
	view, ok := h.layout.View()
	if !ok {
		// the guard let us in but the user is gone, e.g. a logout raced this request
		c.Redirect(http.StatusSeeOther, "/auth")
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"User": view})
}

// POST /dashboard/logout
func (h *DashboardHandler) Logout(c *gin.Context) {
	h.layout.Logout(c.Request.Context())
	h.logger.InfoContext(c.Request.Context(), "user logged out")
	c.Redirect(http.StatusSeeOther, "/auth/login")
}

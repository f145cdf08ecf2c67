package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/auth-shell/internal/guard"
	"github.com/ErlanBelekov/auth-shell/internal/transport/http/handler"
	"github.com/ErlanBelekov/auth-shell/internal/transport/http/middleware"
	"github.com/ErlanBelekov/auth-shell/internal/web"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Session   *handler.SessionHandler
}

// NewRouter wires the two guarded sections. Anything unknown goes to /auth,
// which in turn bounces an authenticated user to /dashboard.
func NewRouter(logger *slog.Logger, session guard.StatusReader, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.SetHTMLTemplate(web.Templates())

	toAuth := func(c *gin.Context) { c.Redirect(http.StatusSeeOther, guard.AuthPath) }

	auth := r.Group(guard.AuthPath, guard.RequireNotAuthenticated(session))
	auth.GET("", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, guard.AuthPath+"/login") })
	auth.GET("/login", h.Auth.LoginPage)
	auth.POST("/login", h.Auth.Login)

	dash := r.Group(guard.DashboardPath, guard.RequireAuthenticated(session))
	dash.GET("", h.Dashboard.Show)
	dash.POST("/logout", h.Dashboard.Logout)

	r.GET("/api/session", h.Session.Get)

	r.GET("/", toAuth)
	r.NoRoute(toAuth)

	return r
}

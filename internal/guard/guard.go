// Package guard decides whether navigation into the "auth" and "dashboard"
// sections is allowed for the current auth status.
package guard

import (
	"net/http"

	"github.com/ErlanBelekov/auth-shell/internal/domain"
	ctxlog "github.com/ErlanBelekov/auth-shell/internal/log"
	"github.com/ErlanBelekov/auth-shell/internal/metrics"
	"github.com/gin-gonic/gin"
)

const (
	AuthPath      = "/auth"
	DashboardPath = "/dashboard"
)

// Decision is the outcome of a guard. Redirect is set only when Allow is false.
type Decision struct {
	Allow    bool
	Redirect string
}

// IsAuthenticated lets navigation through only for an authenticated session.
func IsAuthenticated(status domain.AuthStatus) Decision {
	if status == domain.AuthStatusAuthenticated {
		return Decision{Allow: true}
	}
	return Decision{Redirect: AuthPath}
}

// IsNotAuthenticated lets navigation through for any status but authenticated,
// including checking.
func IsNotAuthenticated(status domain.AuthStatus) Decision {
	if status != domain.AuthStatusAuthenticated {
		return Decision{Allow: true}
	}
	return Decision{Redirect: DashboardPath}
}

// StatusReader is satisfied by *session.Session.
type StatusReader interface {
	AuthStatus() domain.AuthStatus
	CurrentUser() *domain.User
}

// RequireAuthenticated is the gin form of IsAuthenticated.
func RequireAuthenticated(s StatusReader) gin.HandlerFunc {
	return middleware("is_authenticated", s, IsAuthenticated)
}

// RequireNotAuthenticated is the gin form of IsNotAuthenticated.
func RequireNotAuthenticated(s StatusReader) gin.HandlerFunc {
	return middleware("is_not_authenticated", s, IsNotAuthenticated)
}

func middleware(name string, s StatusReader, check func(domain.AuthStatus) Decision) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := check(s.AuthStatus())
		if !d.Allow {
			metrics.GuardRedirectsTotal.WithLabelValues(name).Inc()
			c.Redirect(http.StatusSeeOther, d.Redirect)
			c.Abort()
			return
		}

		if u := s.CurrentUser(); u != nil {
			ctx := ctxlog.WithUserID(c.Request.Context(), u.ID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

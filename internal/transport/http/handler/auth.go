package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/auth-shell/internal/domain"
	"github.com/gin-gonic/gin"
)

// sessionLoginer is the subset of session.Session the handler needs.
// Defined here (point of use) so tests can inject a fake.
type sessionLoginer interface {
	Login(ctx context.Context, email, password string) (bool, error)
}

type AuthHandler struct {
	session sessionLoginer
	logger  *slog.Logger
}

func NewAuthHandler(s sessionLoginer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		session: s,
		logger:  logger.With("component", "auth_handler"),
	}
}

// Fields are passed through as typed: the auth service does the validation.
type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// GET /auth/login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Error": "", "Email": ""})
}

// POST /auth/login
// Redirects to /dashboard on success. On failure the form is rendered again
// with the auth service's message.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": errInvalidForm, "Email": ""})
		return
	}

	_, err := h.session.Login(c.Request.Context(), form.Email, form.Password)
	if err == nil {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	var loginErr *domain.LoginError
	switch {
	case errors.As(err, &loginErr) && loginErr.Unauthorized():
		msg := loginErr.Message
		if msg == "" {
			msg = errCredentialsRejected
		}
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": msg, "Email": form.Email})
	case errors.As(err, &loginErr):
		h.logger.WarnContext(c.Request.Context(), "auth service refused login", "status", loginErr.StatusCode, "error", err)
		c.HTML(http.StatusBadGateway, "login.html", gin.H{"Error": loginErr.Message, "Email": form.Email})
	default:
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.HTML(http.StatusBadGateway, "login.html", gin.H{"Error": errAuthUnavailable, "Email": form.Email})
	}
}

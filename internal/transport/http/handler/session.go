package handler

import (
	"net/http"

	"github.com/ErlanBelekov/auth-shell/internal/domain"
	"github.com/gin-gonic/gin"
)

type sessionReader interface {
	AuthStatus() domain.AuthStatus
	CurrentUser() *domain.User
}

type SessionHandler struct {
	session sessionReader
}

func NewSessionHandler(s sessionReader) *SessionHandler {
	return &SessionHandler{session: s}
}

type userResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	IsActive bool     `json:"is_active"`
	Roles    []string `json:"roles"`
}

type sessionResponse struct {
	Status domain.AuthStatus `json:"status"`
	User   *userResponse     `json:"user"`
}

// GET /api/session
func (h *SessionHandler) Get(c *gin.Context) {
	resp := sessionResponse{Status: h.session.AuthStatus()}
	if u := h.session.CurrentUser(); u != nil {
		resp.User = &userResponse{
			ID:       u.ID,
			Email:    u.Email,
			Name:     u.Name,
			IsActive: u.IsActive,
			Roles:    u.Roles,
		}
	}
	c.JSON(http.StatusOK, resp)
}

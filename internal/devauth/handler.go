package devauth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxRawToken = "rawToken"

	msgInvalidCredentials = "Credentials are not valid"
	msgInactiveUser       = "User is not active, talk with an admin"
	msgInvalidToken       = "Invalid token"
	msgMissingToken       = "There is no bearer token"
)

type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With("component", "devauth_handler")}
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type userResponse struct {
	ID       string   `json:"_id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	IsActive bool     `json:"isActive"`
	Roles    []string `json:"roles"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

// Register mounts the auth routes on r.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/auth")
	g.POST("/login", h.Login)
	g.GET("/check-token", h.requireBearer(), h.CheckToken)
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "error": "Bad Request", "statusCode": http.StatusBadRequest})
		return
	}

	a, token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidCredentials, "error": "Unauthorized", "statusCode": http.StatusUnauthorized})
			return
		case errors.Is(err, ErrInactiveUser):
			c.JSON(http.StatusUnauthorized, gin.H{"message": msgInactiveUser, "error": "Unauthorized", "statusCode": http.StatusUnauthorized})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "statusCode": http.StatusInternalServerError})
		return
	}

	c.JSON(http.StatusCreated, toResponse(a, token))
}

// GET /auth/check-token
func (h *Handler) CheckToken(c *gin.Context) {
	raw := c.GetString(ctxRawToken)

	a, token, err := h.svc.CheckToken(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidToken, "statusCode": http.StatusUnauthorized})
		return
	}
	c.JSON(http.StatusOK, toResponse(a, token))
}

// requireBearer pulls the raw token out of the Authorization header.
// Verification happens in the service so an invalid token and an inactive
// user look the same to the caller.
func (h *Handler) requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgMissingToken, "statusCode": http.StatusUnauthorized})
			return
		}
		c.Set(ctxRawToken, strings.TrimPrefix(header, "Bearer "))
		c.Next()
	}
}

func toResponse(a *Account, token string) authResponse {
	return authResponse{
		User: userResponse{
			ID:       a.ID,
			Email:    a.Email,
			Name:     a.Name,
			IsActive: a.IsActive,
			Roles:    append([]string(nil), a.Roles...),
		},
		Token: token,
	}
}

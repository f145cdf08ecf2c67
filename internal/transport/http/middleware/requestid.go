package middleware

import (
	"github.com/ErlanBelekov/auth-shell/internal/requestid"
	"github.com/gin-gonic/gin"
)

// RequestID keeps an incoming X-Request-ID or generates one, and exposes it
// on the request context and the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" {
			id = requestid.New()
		}

		c.Request = c.Request.WithContext(requestid.WithRequestID(c.Request.Context(), id))
		c.Header(requestid.Header, id)
		c.Next()
	}
}

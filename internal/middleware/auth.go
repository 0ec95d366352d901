package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"ylc-be-svc/pkg/utils"
)

// AdminAuth requires "Authorization: Bearer <token>". An empty token disables the guarded routes.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			utils.NotFoundResponse(c, "Route not found")
			c.Abort()
			return
		}

		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			utils.UnauthorizedResponse(c, "Unauthorized")
			c.Abort()
			return
		}

		c.Next()
	}
}

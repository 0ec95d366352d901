package middleware

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"ylc-be-svc/pkg/logger"
	"ylc-be-svc/pkg/utils"
)

// ErrorHandler recovers panics and answers with a generic 500
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithFields(map[string]interface{}{
			"path":  c.Request.URL.Path,
			"panic": recovered,
		}).Error("Unhandled error")
		utils.InternalServerErrorResponse(c, "Server error occurred")
		c.Abort()
	})
}

// NoRouteHandler serves frontend files and falls back to index.html for unknown GET paths
func NoRouteHandler(frontendDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			utils.NotFoundResponse(c, "Route not found")
			return
		}
		if frontendDir == "" {
			utils.NotFoundResponse(c, "Route not found")
			return
		}

		// Clean keeps the lookup inside frontendDir
		rel := filepath.Clean("/" + strings.TrimPrefix(c.Request.URL.Path, "/"))
		candidate := filepath.Join(frontendDir, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			c.File(candidate)
			return
		}

		index := filepath.Join(frontendDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			utils.NotFoundResponse(c, "Route not found")
			return
		}
		c.File(index)
	}
}

// NoMethodHandler answers 405 in the standard envelope
func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"ylc-be-svc/internal/service"
	"ylc-be-svc/internal/storage"
	"ylc-be-svc/pkg/logger"
	"ylc-be-svc/pkg/utils"
)

// UploadHandler serves stored images back under /uploads
type UploadHandler struct {
	store  storage.ImageStore
	logger *logger.Logger
}

// NewUploadHandler creates a new UploadHandler instance
func NewUploadHandler(store storage.ImageStore, logger *logger.Logger) *UploadHandler {
	return &UploadHandler{store: store, logger: logger}
}

// ServeUpload streams a stored image
// @Summary Get uploaded image
// @Tags uploads
// @Produce octet-stream
// @Param name path string true "Stored file name"
// @Success 200 {file} file "The image"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /uploads/{name} [get]
func (h *UploadHandler) ServeUpload(c *gin.Context) {
	name := c.Param("name")

	rc, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			utils.NotFoundResponse(c, "File not found")
			return
		}
		h.logger.WithError(err).WithField("name", name).Error("Failed to open stored image")
		utils.InternalServerErrorResponse(c, "Failed to read file")
		return
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, service.MaxImageSize+1))
	if err != nil {
		h.logger.WithError(err).WithField("name", name).Error("Failed to read stored image")
		utils.InternalServerErrorResponse(c, "Failed to read file")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, mimetype.Detect(content).String(), content)
}

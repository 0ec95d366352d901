package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"ylc-be-svc/internal/service"
	"ylc-be-svc/pkg/logger"
	"ylc-be-svc/pkg/utils"
)

// QuoteHandler serves operator lookups of stored quotes
type QuoteHandler struct {
	quoteService service.QuoteService
	logger       *logger.Logger
}

// NewQuoteHandler creates a new QuoteHandler instance
func NewQuoteHandler(quoteService service.QuoteService, logger *logger.Logger) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService, logger: logger}
}

// GetQuote returns one quote with its notification history
// @Summary Get quote by ID
// @Description Stored quote fields plus every notification attempt recorded for it. Requires the admin bearer token.
// @Tags admin
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} utils.APIResponse{data=service.QuoteDetail}
// @Failure 400 {object} utils.APIResponse "Invalid quote ID"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 404 {object} utils.APIResponse "Quote not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/admin/quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.BadRequestResponse(c, "Invalid quote ID")
		return
	}

	detail, err := h.quoteService.GetQuoteDetail(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			utils.NotFoundResponse(c, "Quote not found")
			return
		}
		h.logger.WithError(err).WithField("quote_id", id).Error("Failed to get quote")
		utils.InternalServerErrorResponse(c, "Failed to get quote")
		return
	}

	utils.SuccessResponse(c, "Quote retrieved successfully", detail)
}

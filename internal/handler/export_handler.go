package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ylc-be-svc/internal/service"
	"ylc-be-svc/pkg/logger"
	"ylc-be-svc/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handles operator export requests
type ExportHandler struct {
	exportService service.ExportService
	logger        *logger.Logger
}

// NewExportHandler creates a new ExportHandler instance
func NewExportHandler(exportService service.ExportService, logger *logger.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, logger: logger}
}

// ExportQuotes downloads quotes as an Excel workbook
// @Summary Export quotes to Excel
// @Description Export quotes created in the optional [from, to) window. Requires the admin bearer token.
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {file} file "Excel file"
// @Failure 400 {object} utils.APIResponse "Invalid date"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/admin/quotes/export [get]
func (h *ExportHandler) ExportQuotes(c *gin.Context) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	content, filename, err := h.exportService.ExportQuotesToExcel(c.Request.Context(), from, to)
	if err != nil {
		h.logger.WithError(err).Error("Failed to export quotes")
		utils.InternalServerErrorResponse(c, "Failed to export quotes")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}

func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date, expected YYYY-MM-DD", key)
	}
	return &t, nil
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"ylc-be-svc/internal/service"
	"ylc-be-svc/pkg/logger"
	"ylc-be-svc/pkg/utils"
)

// ImagesField is the multipart field carrying the uploaded images
const ImagesField = "images"

// maxSubmitBody caps the whole request. It leaves room for one image beyond the limit so
// an extra file is reported by count rather than by size.
const maxSubmitBody = int64(service.MaxImages+1)*service.MaxImageSize + 1<<20

// Client facing messages
const (
	msgSubmitted       = "Quote request submitted successfully"
	msgMissingFields   = "Missing required fields"
	msgFileTooLarge    = "File too large. Maximum size is 5MB."
	msgNotImage        = "Only image files are allowed"
	msgTooManyFiles    = "Too many files. Maximum is 3 images."
	msgSaveFailed      = "Failed to save submission"
	msgServerError     = "Server error occurred"
	msgInvalidFormBody = "Invalid form data"
)

// SubmissionHandler handles lead submission HTTP requests
type SubmissionHandler struct {
	submissionService service.SubmissionService
	logger            *logger.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler instance
func NewSubmissionHandler(submissionService service.SubmissionService, logger *logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		logger:            logger,
	}
}

// Submit accepts a quote request form
// @Summary Submit a quote request
// @Description Accepts the lead form with up to 3 images (image/*, 5MB each). Saves the quote and notifies the operator and, when an email is given, the customer.
// @Tags quotes
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Customer name"
// @Param phone formData string true "Customer phone"
// @Param email formData string false "Customer email"
// @Param service formData string true "Requested service (projectType is accepted as an alias)"
// @Param budget_min formData int false "Minimum budget"
// @Param budget_max formData int false "Maximum budget"
// @Param description formData string true "Project description"
// @Param location formData string true "Project location"
// @Param images formData file false "Up to 3 images"
// @Success 200 {object} utils.SubmitResponse "Quote saved"
// @Failure 400 {object} utils.APIResponse "Invalid submission"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /submit [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmitBody)

	fields, files, err := h.readForm(c)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.WithError(err).Warn("Submission body too large")
			utils.BadRequestResponse(c, msgFileTooLarge)
			return
		}
		h.logger.WithError(err).Warn("Failed to parse submission form")
		utils.BadRequestResponse(c, msgInvalidFormBody)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"fields": fieldNames(fields),
		"files":  len(files),
	}).Info("Received submission")

	if len(files) > service.MaxImages {
		utils.BadRequestResponse(c, msgTooManyFiles)
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), fields, files)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SubmitSuccessResponse(c, msgSubmitted, result.QuoteID)
}

// readForm decodes multipart, urlencoded or JSON bodies into flat string fields
func (h *SubmissionHandler) readForm(c *gin.Context) (map[string]string, []*multipart.FileHeader, error) {
	fields := map[string]string{}

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, err
		}
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		for key := range form.File {
			if key != ImagesField {
				h.logger.WithField("field", key).Warn("Ignoring files under unexpected field")
			}
		}
		return fields, form.File[ImagesField], nil

	case gin.MIMEJSON:
		// numbers keep their literal text so large budgets are not turned into 1e+06
		var body map[string]interface{}
		decoder := json.NewDecoder(c.Request.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&body); err != nil {
			return nil, nil, err
		}
		for key, value := range body {
			if value == nil {
				continue
			}
			fields[key] = fmt.Sprint(value)
		}
		return fields, nil, nil

	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, nil, err
		}
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		return fields, nil, nil
	}
}

// respondError maps pipeline errors to the response taxonomy without leaking detail
func (h *SubmissionHandler) respondError(c *gin.Context, err error) {
	var (
		validationErr  *service.ValidationError
		mediaErr       *service.UnsupportedMediaError
		tooLargeErr    *service.PayloadTooLargeError
		persistenceErr *service.PersistenceError
		maxBytesErr    *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErr):
		h.logger.WithField("field", validationErr.Field).Warn("Missing required field")
		utils.BadRequestResponse(c, msgMissingFields)
	case errors.As(err, &tooLargeErr), errors.As(err, &maxBytesErr):
		utils.BadRequestResponse(c, msgFileTooLarge)
	case errors.As(err, &mediaErr):
		utils.BadRequestResponse(c, msgNotImage)
	case errors.As(err, &persistenceErr):
		h.logger.WithError(err).Error("Database error")
		utils.InternalServerErrorResponse(c, msgSaveFailed)
	default:
		h.logger.WithError(err).Error("Server error")
		utils.InternalServerErrorResponse(c, msgServerError)
	}
}

func fieldNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse represents the standard API response envelope
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Quote request submitted successfully"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty" example:"Missing required fields"`
}

// SubmitResponse is the body returned after a lead submission was recorded
type SubmitResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Quote request submitted successfully"`
	QuoteID uint   `json:"quoteId" example:"42"`
}

// SuccessResponse sends a 200 envelope carrying data
func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SubmitSuccessResponse sends a 200 with the assigned quote ID
func SubmitSuccessResponse(c *gin.Context, message string, quoteID uint) {
	c.JSON(http.StatusOK, SubmitResponse{
		Success: true,
		Message: message,
		QuoteID: quoteID,
	})
}

// ErrorResponse sends a failure envelope. The error detail is never written to the client.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error:   message,
	})
}

// BadRequestResponse sends a 400 failure envelope
func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

// UnauthorizedResponse sends a 401 failure envelope
func UnauthorizedResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

// NotFoundResponse sends a 404 failure envelope
func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

// InternalServerErrorResponse sends a 500 failure envelope
func InternalServerErrorResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}

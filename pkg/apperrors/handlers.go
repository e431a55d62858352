package apperrors

import (
	"log"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler writes AppErrors to gin responses.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		log.Printf("Server error: %v", err)
	}
	c.JSON(err.HTTPCode, ErrorResponse{Error: err})
}

// HandleError renders err on the gin context.
func HandleError(c *gin.Context, err *AppError) {
	handler := &GinErrorHandler{Debug: true}
	handler.HandleGinError(c, err)
}

// HandleValidationError converts gin binding errors to the standard format.
func HandleValidationError(c *gin.Context, err error) {
	validationErr := ErrValidationFailed.WithDetails(extractValidationDetails(err))
	HandleError(c, validationErr)
}

func extractValidationDetails(err error) interface{} {
	return gin.H{"details": err.Error()}
}

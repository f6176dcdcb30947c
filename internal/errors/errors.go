package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mfcastro/task-manager-api/internal/dto"
)

// respond sends a failure envelope with the given status and message.
func respond(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.Response{
		Success: false,
		Message: message,
	})
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	respond(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	respond(c, http.StatusForbidden, message)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	respond(c, http.StatusNotFound, message)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	respond(c, http.StatusBadRequest, message)
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	respond(c, http.StatusConflict, message)
}

// UnprocessableEntity sends a 422 response carrying per-field validation errors.
func UnprocessableEntity(c *gin.Context, errs []dto.FieldError) {
	c.JSON(http.StatusUnprocessableEntity, dto.Response{
		Success: false,
		Errors:  errs,
	})
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	respond(c, http.StatusInternalServerError, message)
}

package dto

import "github.com/gin-gonic/gin"

// FieldError describes a single per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Response is the uniform envelope wrapping every API response.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Count   *int         `json:"count,omitempty"`
}

// OK sends a success envelope with optional data.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// OKWithMessage sends a success envelope with a message and optional data.
func OKWithMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// OKList sends a success envelope with data and an item count.
func OKList(c *gin.Context, status int, data any, count int) {
	c.JSON(status, Response{Success: true, Data: data, Count: &count})
}

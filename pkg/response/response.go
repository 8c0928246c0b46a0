package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents a standard JSON success response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a 200 JSON response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Reject sends a plain-text error. The body is the message itself so
// clients can show it verbatim.
func Reject(c *gin.Context, statusCode int, message string) {
	c.String(statusCode, message)
}

// BadRequest sends a 400 plain-text error.
func BadRequest(c *gin.Context, message string) {
	Reject(c, http.StatusBadRequest, message)
}

// Conflict sends a 409 plain-text error.
func Conflict(c *gin.Context, message string) {
	Reject(c, http.StatusConflict, message)
}

// InternalError sends a 500 plain-text error.
func InternalError(c *gin.Context, message string) {
	Reject(c, http.StatusInternalServerError, message)
}

// Package response is the JSON envelope every API handler answers with.
package response

import (
	"net/http"

	"wmx/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// ValidationError rejects a request body. When the error carries field-level
// validation failures they land in details, so the client can highlight the
// offending inputs; malformed JSON gets the bare envelope.
func ValidationError(c *gin.Context, err error) {
	if details := validator.Details(err); details != nil {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
}

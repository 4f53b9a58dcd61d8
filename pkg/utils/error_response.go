package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	ErrorResponseWith(c, statusCode, message, nil)
}

// ErrorResponseWith writes the error envelope plus extra top-level fields.
func ErrorResponseWith(c *gin.Context, statusCode int, message string, extra gin.H) {
	body := gin.H{}
	for k, v := range extra {
		body[k] = v
	}
	body["error"] = message
	body["status"] = statusCode
	body["message"] = message
	body["timestamp"] = time.Now().Format(time.RFC3339)
	c.JSON(statusCode, body)
}

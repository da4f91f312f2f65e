package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Success writes a 200 response carrying "success": true alongside fields.
func Success(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	JSON(c, http.StatusOK, body)
}

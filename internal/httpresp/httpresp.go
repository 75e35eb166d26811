// Package httpresp renders the gateway's single error envelope shape from an
// *apperr.Error. It exists so every middleware and handler that can abort a
// request (auth, rate limiting, validation, recovery, business errors)
// writes the exact same JSON shape, grounded on the repeated
// c.JSON(status, gin.H{"error": ...}) idiom in
// internal/api/middleware/security.go, collapsed into one call site.
package httpresp

import (
	"github.com/gin-gonic/gin"

	"github.com/dominicbrandes/aztec-exchange/internal/apperr"
)

const requestIDContextKey = "request_id"

// WriteError writes {success:false, error:{code, message[, details]},
// request_id} at err.Status and aborts the gin context so no downstream
// handler runs.
func WriteError(c *gin.Context, err *apperr.Error) {
	body := gin.H{
		"code":    err.Code,
		"message": err.Message,
	}
	if len(err.Details) > 0 {
		for k, v := range err.Details {
			body[k] = v
		}
	}

	c.AbortWithStatusJSON(err.Status, gin.H{
		"success":    false,
		"error":      body,
		"request_id": c.GetString(requestIDContextKey),
	})
}

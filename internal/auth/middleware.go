// Package auth implements the gateway's API-key authenticator: a static set
// of accepted keys checked against one fixed header. It is grounded on
// internal/auth/middleware.go's header-check/c.Abort() idiom, adapted from
// Bearer-JWT validation to a constant-time set lookup, since the gateway has
// no login flow or token issuance of its own.
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dominicbrandes/aztec-exchange/internal/apperr"
	"github.com/dominicbrandes/aztec-exchange/internal/httpresp"
)

// RequireAPIKey returns a gin middleware that rejects requests missing
// header, or carrying a value not present in keys. Unlike the teacher's
// AuthMiddleware, this is applied per-route rather than to a whole router
// group: the gateway's auth requirement is not subtree-uniform.
func RequireAPIKey(header string, keys map[string]struct{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.GetHeader(header)
		if value == "" {
			httpresp.WriteError(c, apperr.AuthMissing(header))
			return
		}

		if _, ok := keys[value]; !ok {
			httpresp.WriteError(c, apperr.AuthInvalid())
			return
		}

		c.Next()
	}
}

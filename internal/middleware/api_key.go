// Package middleware contain utilities middleware code
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vulong264/cvstatuschecker/internal/utilities"
)

// RequireAPIKey validates the X-API-Key header on mutating endpoints. When
// no key is configured the guard is disabled, which keeps local development
// friction-free.
func RequireAPIKey(apiKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if apiKey == "" {
			ctx.Next()
			return
		}

		provided := ctx.GetHeader("X-API-Key")
		if provided == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "API key not provided",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Invalid API key",
			})
			return
		}

		ctx.Next()
	}
}

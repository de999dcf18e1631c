// middleware/bearer_auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pep_errors "github.com/dive25/pep/errors"
	logger "github.com/dive25/pep/logging"
	"github.com/dive25/pep/revocation"
	"github.com/dive25/pep/token"
	"github.com/dive25/pep/util"
)

// BearerAuth verifies the bearer token on every protected route and
// attaches the resulting identity to the request context. Verification
// runs before the revocation lookups; revocation runs before any resource
// or PDP work so a revoked session never costs a downstream call.
func BearerAuth(verifier *token.Verifier, revocations revocation.Checker, eventBus *util.EventBus) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.RespondUnauthorized(c, "Authorization header required", "Bearer <token>", "Missing")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			util.RespondUnauthorized(c, "Authorization header must use the Bearer scheme", "Bearer <token>", "Malformed")
			return
		}
		rawToken := strings.TrimPrefix(header, "Bearer ")

		identity, err := verifier.Verify(c.Request.Context(), rawToken)
		if err != nil {
			// The reason stays in the server log; the client only learns
			// that the token was rejected.
			logger.Warn("Token verification failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
				zap.Error(err))
			if errors.Is(err, pep_errors.ErrKeyNotFound) {
				// A kid no endpoint serves usually means realm
				// misconfiguration; operators want to hear about it.
				eventBus.Publish(context.WithoutCancel(c.Request.Context()),
					util.EventKeyDiscoveryFailed, err.Error())
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid or expired token",
			})
			return
		}

		if err := revocation.Check(c.Request.Context(), revocations, identity.TokenID, identity.SubjectID); err != nil {
			if errors.Is(err, pep_errors.ErrTokenRevoked) {
				logger.Warn("Revoked token presented",
					zap.String("subjectID", identity.SubjectID),
					zap.String("ip", c.ClientIP()))
				eventBus.Publish(context.WithoutCancel(c.Request.Context()),
					util.EventTokenRevoked, identity.SubjectID)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "Unauthorized",
					"message": "Token has been revoked",
				})
				return
			}
			// Revocation store errors fail closed.
			util.RespondWithError(c, http.StatusInternalServerError, "Revocation check failed", err)
			c.Abort()
			return
		}

		c.Set(util.ContextIdentityKey, identity)
		c.Next()
	}
}

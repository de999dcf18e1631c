// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pep_errors "github.com/dive25/pep/errors"
	logger "github.com/dive25/pep/logging"
	"github.com/dive25/pep/model"
	pdp_model "github.com/dive25/pep/pdp/model"
)

// Keys under which request-scoped values are attached to the gin context.
const (
	ContextIdentityKey    = "identity"
	ContextObligationsKey = "obligations"
	ContextRequestIDKey   = "requestID"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// RespondUnauthorized writes the 401 body for authentication failures. The
// details never include token material; only what the caller should have
// sent versus what arrived.
func RespondUnauthorized(c *gin.Context, message string, expected string, received string) {
	c.AbortWithStatusJSON(401, gin.H{
		"error":   "Unauthorized",
		"message": message,
		"details": gin.H{
			"expected": expected,
			"received": received,
		},
	})
}

func GetIdentityFromContext(c *gin.Context) (*model.VerifiedIdentity, error) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, pep_errors.ErrUnauthorized
	}
	identity, ok := value.(*model.VerifiedIdentity)
	if !ok {
		return nil, pep_errors.ErrUnauthorized
	}
	return identity, nil
}

// GetObligationsFromContext returns the obligations the decision attached
// for downstream handlers, if any.
func GetObligationsFromContext(c *gin.Context) []pdp_model.Obligation {
	value, exists := c.Get(ContextObligationsKey)
	if !exists {
		return nil
	}
	obligations, ok := value.([]pdp_model.Obligation)
	if !ok {
		return nil
	}
	return obligations
}

func GetRequestIDFromContext(c *gin.Context) string {
	value, exists := c.Get(ContextRequestIDKey)
	if !exists {
		return ""
	}
	requestID, ok := value.(string)
	if !ok {
		return ""
	}
	return requestID
}

// middleware/request_id.go

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dive25/pep/util"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request an identifier that flows into the PDP
// context and the audit trail. A caller-supplied header is honored so
// upstream gateways can correlate their own traces.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(util.ContextRequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

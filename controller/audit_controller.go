// controller/audit_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dive25/pep/audit"
	pep_errors "github.com/dive25/pep/errors"
	"github.com/dive25/pep/util"
	helper_util "github.com/dive25/pep/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/audit")
	{
		events.GET("/events", ac.QueryEvents)
	}
}

// QueryEvents searches the decision trail. Defaults to the last 24 hours
// when no range is given.
func (ac *AuditController) QueryEvents(c *gin.Context) {
	now := time.Now().UTC()
	from := now.Add(-24 * time.Hour)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := helper_util.ParseTime(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid from timestamp", pep_errors.ErrInvalidAuditQueryRange)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := helper_util.ParseTime(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid to timestamp", pep_errors.ErrInvalidAuditQueryRange)
			return
		}
		to = parsed
	}
	if to.Before(from) {
		util.RespondWithError(c, http.StatusBadRequest, "Query range ends before it starts", pep_errors.ErrInvalidAuditQueryRange)
		return
	}

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", pep_errors.ErrInvalidPagination)
		return
	}

	events, err := ac.auditService.QueryEvents(c, from, to, c.Query("subject"), c.Query("resourceId"), limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit events", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

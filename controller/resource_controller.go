// controller/resource_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pep_errors "github.com/dive25/pep/errors"
	"github.com/dive25/pep/middleware"
	"github.com/dive25/pep/service"
	"github.com/dive25/pep/util"
)

type ResourceController struct {
	resourceService service.IResourceService
}

func NewResourceController(resourceService service.IResourceService) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
	}
}

// RegisterRoutes registers the resource-scoped routes behind the
// enforcement chain.
func (rc *ResourceController) RegisterRoutes(r *gin.RouterGroup, enforcer *middleware.Enforcer) {
	resources := r.Group("/resources")
	{
		resources.GET("/:id", enforcer.EnforceResourceAccess("read"), rc.GetResource)
	}
}

// GetResource serves a resource the enforcement chain has already cleared.
// Obligations attached by the decision are surfaced so the caller knows to
// fetch a decryption key before using the content.
func (rc *ResourceController) GetResource(c *gin.Context) {
	resourceID := c.Param("id")

	resource, err := rc.resourceService.GetResource(c, resourceID)
	if err != nil {
		if errors.Is(err, pep_errors.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "Resource not found"})
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve resource", err)
		}
		return
	}

	body := gin.H{"resource": resource}
	if obligations := util.GetObligationsFromContext(c); len(obligations) > 0 {
		body["obligations"] = obligations
	}
	c.JSON(http.StatusOK, body)
}

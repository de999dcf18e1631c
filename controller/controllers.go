// controller/controllers.go
package controller

import (
	"github.com/dive25/pep/audit"
	"github.com/dive25/pep/service"
)

type Controllers struct {
	Resource *ResourceController
	Audit    *AuditController
}

func InitializeControllers(resourceService service.IResourceService, auditService audit.Service) *Controllers {
	return &Controllers{
		Resource: NewResourceController(resourceService),
		Audit:    NewAuditController(auditService),
	}
}

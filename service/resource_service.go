// service/resource_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dive25/pep/dao"
	"github.com/dive25/pep/db"
	logger "github.com/dive25/pep/logging"
	"github.com/dive25/pep/model"
	"github.com/dive25/pep/util"
)

// IResourceService defines the interface for resource attribute retrieval
type IResourceService interface {
	GetResource(ctx context.Context, resourceID string) (*model.Resource, error)
}

// ResourceService fronts the resource store with the encrypted Redis
// cache and validates labels before they reach policy evaluation.
type ResourceService struct {
	resourceDAO    *dao.ResourceDAO
	validationUtil *util.ValidationUtil
}

var _ IResourceService = &ResourceService{}

func NewResourceService(resourceDAO *dao.ResourceDAO, validationUtil *util.ValidationUtil) *ResourceService {
	return &ResourceService{
		resourceDAO:    resourceDAO,
		validationUtil: validationUtil,
	}
}

func (s *ResourceService) GetResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	cached, err := db.GetCachedResource(ctx, resourceID)
	if err != nil {
		// A broken cache read falls through to the store.
		logger.Warn("Resource cache read failed",
			zap.String("resourceID", resourceID),
			zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	resource, err := s.resourceDAO.GetResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	if err := s.validationUtil.ValidateSecurityAttributes(resource.Security); err != nil {
		logger.Warn("Resource security label failed validation",
			zap.String("resourceID", resourceID),
			zap.Error(err))
		// Enforcement still runs; the PDP sees the label as stored.
	}

	if err := db.CacheResource(ctx, resource); err != nil {
		logger.Warn("Failed to cache resource",
			zap.String("resourceID", resourceID),
			zap.Error(err))
	}
	return resource, nil
}

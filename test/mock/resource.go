// test/mock/resource.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dive25/pep/model"
)

// MockResourceService is a mock implementation of service.IResourceService
type MockResourceService struct {
	mock.Mock
}

func (m *MockResourceService) GetResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

// test/mock/audit.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dive25/pep/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) RecordDecision(ctx context.Context, event audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditService) QueryEvents(ctx context.Context, from, to time.Time, subject, resourceID string, limit, offset int) ([]audit.Event, error) {
	args := m.Called(ctx, from, to, subject, resourceID, limit, offset)
	return args.Get(0).([]audit.Event), args.Error(1)
}

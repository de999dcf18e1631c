// test/mock/pdp.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	pdp_model "github.com/dive25/pep/pdp/model"
)

// MockDecisionPoint is a mock implementation of pdp.DecisionPoint
type MockDecisionPoint struct {
	mock.Mock
}

func (m *MockDecisionPoint) Evaluate(ctx context.Context, request *pdp_model.EvaluationRequest) (*pdp_model.Decision, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pdp_model.Decision), args.Error(1)
}

// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	RecordDecision(ctx context.Context, event Event) error
	QueryEvents(ctx context.Context, from, to time.Time, subject, resourceID string, limit, offset int) ([]Event, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RecordDecision(ctx context.Context, event Event) error {
	return s.repo.RecordDecision(ctx, event)
}

func (s *service) QueryEvents(ctx context.Context, from, to time.Time, subject, resourceID string, limit, offset int) ([]Event, error) {
	return s.repo.QueryEvents(ctx, from, to, subject, resourceID, limit, offset)
}

// util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/dive25/pep/logging"
)

// NotificationService delivers best-effort operator notifications for
// security-relevant enforcement outcomes. Delivery transport is out of
// scope here; messages are handed to the logging sink.
type NotificationService struct {
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyAccessDenied(ctx context.Context, subjectID, resourceID, reason string) error {
	logger.Info("NOTIFICATION: Access denied",
		zap.String("subjectID", subjectID),
		zap.String("resourceID", resourceID),
		zap.String("reason", reason))
	return nil
}

func (n *NotificationService) NotifyRevokedTokenAttempt(ctx context.Context, subjectID string) error {
	logger.Warn("NOTIFICATION: Revoked token presented",
		zap.String("subjectID", subjectID))
	return nil
}

func (n *NotificationService) NotifyKeyDiscoveryExhausted(ctx context.Context, detail string) error {
	logger.Warn("NOTIFICATION: Key discovery exhausted all endpoints",
		zap.String("detail", detail))
	return nil
}

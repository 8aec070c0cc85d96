// Package notification provides transport implementations for reminder
// delivery. The real SMS gateway is an external collaborator; the logging
// transport stands in wherever none is configured.
package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/notification"
)

// LogTransport writes reminders to the log instead of sending them
type LogTransport struct {
	logger *zap.Logger
}

// NewLogTransport creates a LogTransport
func NewLogTransport(logger *zap.Logger) *LogTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogTransport{logger: logger}
}

var _ notification.Transport = (*LogTransport)(nil)

// Send logs the message that would have been delivered
func (t *LogTransport) Send(_ context.Context, recipient, message string) error {
	t.logger.Info("reminder dispatched (log transport)",
		zap.String("recipient", recipient),
		zap.String("message", message))
	return nil
}

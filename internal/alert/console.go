package alert

import (
	"context"
	"log/slog"

	"github.com/deploykit/stackhook/pkg/types"
)

// ConsoleSink writes alerts to the structured logger.
type ConsoleSink struct {
	logger *slog.Logger
}

// NewConsoleSink creates a console alert sink.
func NewConsoleSink(logger *slog.Logger) *ConsoleSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleSink{logger: logger}
}

// Name returns the sink identifier.
func (s *ConsoleSink) Name() string { return "console" }

// Send logs the alert.
func (s *ConsoleSink) Send(_ context.Context, alert types.Alert) error {
	s.logger.Info("alert",
		"level", alert.Level,
		"stack", alert.StackID,
		"logicalId", alert.LogicalID,
		"message", alert.Message)
	return nil
}

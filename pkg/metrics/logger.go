package metrics

import "log/slog"

// metricsLogger wraps slog.Logger to prepend "[Metrics]" to all messages.
type metricsLogger struct {
	logger *slog.Logger
}

func newMetricsLogger(logger *slog.Logger) *metricsLogger {
	return &metricsLogger{logger: logger}
}

// Debug logs a debug message with "[Metrics]" prefix.
func (ml *metricsLogger) Debug(msg string, args ...any) {
	ml.logger.Debug("[Metrics] "+msg, args...)
}

// Info logs an info message with "[Metrics]" prefix.
func (ml *metricsLogger) Info(msg string, args ...any) {
	ml.logger.Info("[Metrics] "+msg, args...)
}

// Warn logs a warning message with "[Metrics]" prefix.
func (ml *metricsLogger) Warn(msg string, args ...any) {
	ml.logger.Warn("[Metrics] "+msg, args...)
}

// Error logs an error message with "[Metrics]" prefix.
func (ml *metricsLogger) Error(msg string, args ...any) {
	ml.logger.Error("[Metrics] "+msg, args...)
}

package dashboard

import "go.uber.org/zap"

// Notifier receives the transient notifications the dashboard raises while
// loading and mutating state. The UI layer renders them as toasts; headless
// consumers log them.
type Notifier interface {
	Progress(msg string)
	Success(msg string)
	Error(msg string, err error)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Progress(string)     {}
func (NopNotifier) Success(string)      {}
func (NopNotifier) Error(string, error) {}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	lg *zap.Logger
}

// NewLogNotifier builds a LogNotifier over lg.
func NewLogNotifier(lg *zap.Logger) *LogNotifier {
	return &LogNotifier{lg: lg}
}

func (n *LogNotifier) Progress(msg string) {
	n.lg.Info(msg)
}

func (n *LogNotifier) Success(msg string) {
	n.lg.Info(msg)
}

func (n *LogNotifier) Error(msg string, err error) {
	n.lg.Warn(msg, zap.Error(err))
}

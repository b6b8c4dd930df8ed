package notify

import "github.com/sirupsen/logrus"

// Notifier is the user feedback sink: the success and error toasts shown to
// the outlet operator. Implementations must be safe for concurrent use.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier reports notifications through the structured log. The HTTP
// response carries the same message to the operator.
type LogNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(message string) {
	n.log.WithField("notification", "success").Info(message)
}

func (n *LogNotifier) Error(message string) {
	n.log.WithField("notification", "error").Warn(message)
}

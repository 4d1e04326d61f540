package resolver

import "github.com/ThandieOps/jestpath/internal/logger"

// Notifier shows a non-blocking warning to the user.
type Notifier interface {
	Warn(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Warn(message string) { f(message) }

type logNotifier struct{}

func (logNotifier) Warn(message string) {
	logger.Warn(message)
}

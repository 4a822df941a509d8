package notify

import "log"

// Notifier delivers transient user-facing notifications. The two levels
// mirror the web client's success/info toasts.
type Notifier interface {
	Success(message string)
	Info(message string)
}

type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	log.Printf("[notify] %s", message)
}

func (LogNotifier) Info(message string) {
	log.Printf("[notify] %s", message)
}

type Multi []Notifier

func (m Multi) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m Multi) Info(message string) {
	for _, n := range m {
		n.Info(message)
	}
}

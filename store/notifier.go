package store

import "github.com/sirupsen/logrus"

// Notifier surfaces transient user-facing messages (toasts).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes toasts to a logrus entry.
type LogNotifier struct {
	Entry *logrus.Entry
}

func (n LogNotifier) entry() *logrus.Entry {
	if n.Entry == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return n.Entry
}

func (n LogNotifier) Success(msg string) {
	if msg == "" {
		return
	}
	n.entry().WithField("toast", "success").Info(msg)
}

func (n LogNotifier) Error(msg string) {
	if msg == "" {
		return
	}
	n.entry().WithField("toast", "error").Warn(msg)
}

package workspace

import (
	"sync"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a transient user-facing message about an operation.
type Notification struct {
	Level   Level
	Op      string
	Message string
	Err     error
}

// Notifier receives every notification the workspace emits.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Log zerolog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	ev := l.Log.Info()
	if n.Level == LevelError {
		ev = l.Log.Error().Err(n.Err)
	}
	ev.Str("op", n.Op).Msg(n.Message)
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Errors returns only error-level notifications.
func (r *Recorder) Errors() []Notification {
	var out []Notification
	for _, n := range r.Notifications() {
		if n.Level == LevelError {
			out = append(out, n)
		}
	}
	return out
}

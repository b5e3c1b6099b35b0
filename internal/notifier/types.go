package notifier

import (
	"context"
	"time"
)

// Notifier delivers the outcome of a replay run.
type Notifier interface {
	Notify(ctx context.Context, event RunEvent) error
}

// RunEvent holds contextual data about a finished replay run.
type RunEvent struct {
	Status      string // success or fail
	User        string
	DB          string
	Dates       int // dates selected
	DatesRun    int
	WorkingRows int64
	Duration    time.Duration
	Error       error `json:"-"`
	Time        time.Time
}

// Failed reports whether the run stopped with an error.
func (e RunEvent) Failed() bool { return e.Error != nil }

// NoopNotifier discards events.
type NoopNotifier struct{}

func (*NoopNotifier) Notify(context.Context, RunEvent) error { return nil }

package driver

import "time"

// Stage names a phase of the parse→resolve→check→xform→mono→emit
// pipeline, reported to a ProgressSink for the batch
// UI to render.
type Stage string

const (
	StageParse     Stage = "parse"
	StageResolve   Stage = "resolve"
	StageCheck     Stage = "check"
	StageTransform Stage = "transform"
	StageMono      Stage = "monomorphize"
	StageEmit      Stage = "emit"
)

// Status captures progress within a Stage for one file (or for the
// pipeline overall when Event.File is empty).
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one file at one stage.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes pipeline events; internal/ui's progress model is
// the interactive implementation, NullSink the batch/quiet one.
type ProgressSink interface {
	OnEvent(Event)
}

// NullSink discards every event.
type NullSink struct{}

func (NullSink) OnEvent(Event) {}

// ChannelSink forwards events into a channel, the bridge internal/ui's
// bubbletea model listens on.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

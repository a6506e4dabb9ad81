package buildpipeline

import "time"

// Stage describes a checker phase reported to progress sinks.
type Stage string

const (
	StageLex   Stage = "lex"
	StageParse Stage = "parse"
	StageFlow  Stage = "flow"
	StageLower Stage = "lower"
	// StageLink is the cross-unit signature check; reported without File.
	StageLink Stage = "link"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusCached: unit verdict restored from the disk cache.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Event reports progress for a file (or for the overall run when File is empty).
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Err      error
	Errors   int // error diagnostics of the unit so far
	Warnings int
	Elapsed  time.Duration
}

// Terminal reports whether the event closes the unit.
func (e Event) Terminal() bool {
	return e.Status == StatusDone || e.Status == StatusError || e.Status == StatusCached
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: units are checked in parallel.
type ProgressSink interface {
	OnEvent(Event)
}

// Emit sends ev to sink when sink is non-nil.
func Emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// EmitQueued reports every file as queued.
func EmitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		Emit(sink, Event{File: f, Status: StatusQueued})
	}
}

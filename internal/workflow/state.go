package workflow

import "errors"

// State is a step of the import workflow.
type State int

const (
	Idle State = iota
	Scanning
	Preview
	Confirming
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Preview:
		return "preview"
	case Confirming:
		return "confirming"
	default:
		return "unknown"
	}
}

// InFlight reports whether a request is outstanding.
func (s State) InFlight() bool {
	return s == Scanning || s == Confirming
}

var (
	// ErrBusy rejects a second scan or confirm while one is in flight.
	ErrBusy = errors.New("workflow: a scan or import is already in progress")
	// ErrBatchOpen rejects a scan while a preview batch is waiting for confirmation.
	ErrBatchOpen = errors.New("workflow: a preview batch is already open")
	// ErrNoBatch rejects selection changes and confirms without a preview batch.
	ErrNoBatch = errors.New("workflow: no preview batch")
	// ErrUnacknowledged rejects scans, confirms and selection edits while an
	// error notice is waiting for AcknowledgeNotice.
	ErrUnacknowledged = errors.New("workflow: acknowledge the previous failure first")
	// ErrStale is returned when a response arrives after the workflow was
	// discarded or restarted; the response did not change any state.
	ErrStale = errors.New("workflow: response discarded after the workflow moved on")
)

package store

import "errors"

var (
	// ErrSuperseded is returned by a fetch whose result was dropped because a
	// newer fetch of the same container was dispatched after it.
	ErrSuperseded = errors.New("superseded by a newer fetch")
	// ErrClosed is returned by operations dispatched after Close.
	ErrClosed = errors.New("store closed")
)

// Phase is the position of an operation in its pending → fulfilled |
// rejected lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseFulfilled
	PhaseRejected
	// PhaseSuperseded is reported to observers for a result dropped in favor
	// of a newer call. A Lifecycle never holds it.
	PhaseSuperseded
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseFulfilled:
		return "fulfilled"
	case PhaseRejected:
		return "rejected"
	case PhaseSuperseded:
		return "superseded"
	default:
		return "idle"
	}
}

// Lifecycle tracks one kind of operation. Several calls of the same kind may
// be outstanding at once; Pending stays true until all of them settle.
type Lifecycle struct {
	Phase Phase
	Err   error

	outstanding int
	last        Phase
}

// Pending reports whether any call of this kind is outstanding.
func (l Lifecycle) Pending() bool {
	return l.outstanding > 0
}

// Outstanding returns the number of unsettled calls.
func (l Lifecycle) Outstanding() int {
	return l.outstanding
}

func (l *Lifecycle) start() {
	l.outstanding++
	l.Phase = PhasePending
	l.Err = nil
}

func (l *Lifecycle) fulfill() {
	l.finish(PhaseFulfilled)
}

func (l *Lifecycle) reject(err error) {
	l.Err = err
	l.finish(PhaseRejected)
}

// drop settles a call whose result is discarded. The phase falls back to the
// last committed outcome.
func (l *Lifecycle) drop() {
	l.finish(l.last)
}

func (l *Lifecycle) finish(p Phase) {
	if l.outstanding > 0 {
		l.outstanding--
	}
	l.last = p
	if l.outstanding == 0 {
		l.Phase = p
	}
}

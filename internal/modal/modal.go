// Package modal models the project detail dialog: its open/close
// transitions, the Escape key listener and the page scroll lock.
//
// The transition table is rendered into the dialog fragment and the
// browser component steps through it, so the rules here are the ones the
// page runs.
package modal

import "time"

type State int

const (
	Closed State = iota
	Opening
	Open
	Closing
)

// EnterDelay is how long Opening lasts before the dialog settles to Open.
const EnterDelay = 10 * time.Millisecond

// ExitDuration is how long the Closing transition plays before removal.
const ExitDuration = 300 * time.Millisecond

var states = []State{Closed, Opening, Open, Closing}

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	}
	return "unknown"
}

// Event is something that happens to the dialog.
type Event string

const (
	EventOpen     Event = "open"
	EventSettle   Event = "settle"   // entrance delay elapsed
	EventEscape   Event = "escape"   // Escape key pressed
	EventBackdrop Event = "backdrop" // click outside the content panel
	EventClose    Event = "close"    // close button
	EventFinish   Event = "finish"   // exit transition done
	EventUnmount  Event = "unmount"
)

var transitions = map[State]map[Event]State{
	Closed: {
		EventOpen: Opening,
	},
	Opening: {
		EventSettle:  Open,
		EventClose:   Closing,
		EventUnmount: Closed,
	},
	Open: {
		EventEscape:   Closing,
		EventBackdrop: Closing,
		EventClose:    Closing,
		EventUnmount:  Closed,
	},
	Closing: {
		EventFinish:  Closed,
		EventUnmount: Closed,
	},
}

// Next returns the state after e, and false when e does nothing in s.
func Next(s State, e Event) (State, bool) {
	next, ok := transitions[s][e]
	if !ok {
		return s, false
	}
	return next, true
}

// Locked reports whether s holds the page scroll lock and listens for
// Escape. Both are released on every way out of Opening and Open.
func Locked(s State) bool {
	return s == Opening || s == Open
}

// Modal is a single dialog instance. The zero value is Closed.
type Modal struct {
	state State
}

func (m *Modal) State() State { return m.state }

// Fire applies e and reports whether it changed the state.
func (m *Modal) Fire(e Event) bool {
	next, ok := Next(m.state, e)
	m.state = next
	return ok
}

// Machine is the transition table in the form the browser component reads.
type Machine struct {
	Initial      string                      `json:"initial"`
	Transitions  map[string]map[Event]string `json:"transitions"`
	Locked       []string                    `json:"locked"`
	EnterDelayMS int64                       `json:"enter_delay_ms"`
	ExitMS       int64                       `json:"exit_ms"`
}

// MachineFrom describes the table for a dialog starting in initial.
func MachineFrom(initial State) Machine {
	m := Machine{
		Initial:      initial.String(),
		Transitions:  make(map[string]map[Event]string, len(transitions)),
		EnterDelayMS: EnterDelay.Milliseconds(),
		ExitMS:       ExitDuration.Milliseconds(),
	}
	for _, s := range states {
		if Locked(s) {
			m.Locked = append(m.Locked, s.String())
		}
		out := make(map[Event]string, len(transitions[s]))
		for e, next := range transitions[s] {
			out[e] = next.String()
		}
		m.Transitions[s.String()] = out
	}
	return m
}

// Classes are the CSS classes the dialog template applies in each state.
type Classes struct {
	Backdrop string
	Panel    string
}

// ClassesFor returns the backdrop and panel classes for s.
func ClassesFor(s State) Classes {
	if s == Open {
		return Classes{Backdrop: "opacity-100", Panel: "translate-y-0"}
	}
	return Classes{Backdrop: "opacity-0", Panel: "translate-y-8"}
}

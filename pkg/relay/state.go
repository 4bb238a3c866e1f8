package relay

import (
	"fmt"

	"github.com/ferama/prelay/pkg/poller"
)

// EndpointID identifies one of the streams the relay manages. It is also
// the token the stream is registered with in the poller
type EndpointID int

const (
	// UserInput is the terminal the keystrokes come from
	UserInput EndpointID = iota
	// ChildOutput is the child's stdout
	ChildOutput
	// ChildInput is the child's stdin
	ChildInput
	// Shutdown is the waker used to stop the loop from outside
	Shutdown
)

func (e EndpointID) String() string {
	switch e {
	case UserInput:
		return "stdin"
	case ChildOutput:
		return "chout"
	case ChildInput:
		return "chin"
	case Shutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("endpoint(%d)", int(e))
	}
}

// Token returns the poller token for the endpoint
func (e EndpointID) Token() poller.Token {
	return poller.Token(e)
}

// Status is the lifecycle of an endpoint. It goes from Open to Closed
// once and never back
type Status int

const (
	Open Status = iota
	Closed
)

func (s Status) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Endpoint is the per stream state
type Endpoint struct {
	Status Status
	// Waiting is set when a readiness event arrived and was not serviced yet
	Waiting bool
	// Ready is set while the endpoint is known to accept more data without
	// a new readiness event. Edge triggered writability is reported again
	// only after a write hit a full sink
	Ready bool
}

// IsOpen reports whether the endpoint is still open
func (e *Endpoint) IsOpen() bool {
	return e.Status == Open
}

// Close marks the endpoint closed. Nothing is waiting on a closed endpoint
func (e *Endpoint) Close() {
	e.Status = Closed
	e.Waiting = false
	e.Ready = false
}

// Pending is the single slot outbound buffer holding user input not yet
// delivered to the child. Successive inputs are coalesced into the slot
type Pending struct {
	text    string
	present bool
}

// Append adds text to the slot, creating it if absent
func (p *Pending) Append(text string) {
	p.text += text
	p.present = true
}

// Present reports whether the slot holds a payload (possibly empty)
func (p *Pending) Present() bool {
	return p.present
}

// Peek returns the payload without clearing the slot
func (p *Pending) Peek() (string, bool) {
	return p.text, p.present
}

// Take returns the payload and clears the slot
func (p *Pending) Take() (string, bool) {
	text, ok := p.text, p.present
	p.text, p.present = "", false
	return text, ok
}

// State is everything the event loop knows about the session
type State struct {
	User     Endpoint
	ChildOut Endpoint
	ChildIn  Endpoint
	Pending  Pending
}

// NewState returns the startup state: every endpoint open, nothing pending
func NewState() State {
	return State{}
}

// Finished reports whether both child endpoints are closed
func (s *State) Finished() bool {
	return !s.ChildOut.IsOpen() && !s.ChildIn.IsOpen()
}

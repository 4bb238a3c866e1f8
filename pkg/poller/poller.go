// Package poller implements the readiness multiplexer the relay loop
// sleeps on. Descriptors are registered edge triggered: an event is
// reported once per readiness change, so every notification must be
// fully drained by the caller.
package poller

import (
	"errors"
	"fmt"

	"github.com/ferama/prelay/pkg/logger"
)

var log = logger.NewLogger("[POLL] ", logger.Yellow)

// ErrUnsupported is returned on platforms without epoll
var ErrUnsupported = errors.New("poller: this platform is not supported")

const defaultCapacity = 64

// Interest is the set of readiness kinds a descriptor is registered for
type Interest uint8

const (
	Readable Interest = 1 << iota
	Writable
)

func (i Interest) String() string {
	switch i {
	case Readable:
		return "readable"
	case Writable:
		return "writable"
	case Readable | Writable:
		return "readable|writable"
	default:
		return fmt.Sprintf("interest(%d)", uint8(i))
	}
}

// Token is the identity tag a descriptor is registered with. It is
// reported back inside every Event for that descriptor
type Token int

// Event is a single readiness notification
type Event struct {
	Token    Token
	Readable bool
	Writable bool
	// Hangup is set when the peer went away or the descriptor is in
	// error state. Readable descriptors are also flagged Readable so the
	// end of stream is observed by a zero bytes read
	Hangup bool
}

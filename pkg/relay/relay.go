// Package relay implements the event loop moving bytes between the user
// terminal and a child process. The loop is single threaded and only
// reacts to readiness events: terminal input is collected into a single
// pending slot and flushed to the child input as soon as it is writable,
// child output is read line by line and echoed. Writes always go before
// reads so typed input is never starved by a chatty child.
package relay

import (
	"fmt"
	"io"
	"strings"

	"github.com/ferama/prelay/pkg/logger"
	"github.com/ferama/prelay/pkg/poller"
)

var log = logger.NewLogger("[RLAY] ", logger.Blue)

// Waiter is the readiness source the loop sleeps on
type Waiter interface {
	Wait(events []poller.Event) ([]poller.Event, error)
}

// Relay owns the endpoint state and drives the streams
type Relay struct {
	streams Streams
	conf    *RelayConf
	echo    io.Writer
	state   State
}

// NewRelay creates a relay. Child output lines are written to echo, which
// may be nil. A nil conf means zero values: no submit suffix, default
// cancel byte
func NewRelay(streams Streams, conf *RelayConf, echo io.Writer) *Relay {
	if conf == nil {
		conf = &RelayConf{}
	}
	if echo == nil {
		echo = io.Discard
	}
	return &Relay{
		streams: streams,
		conf:    conf,
		echo:    echo,
		state:   NewState(),
	}
}

// State returns a copy of the current state
func (r *Relay) State() State {
	return r.state
}

// Handle applies one readiness event and then services the endpoints:
// a pending payload is delivered to a waiting or still writable child
// input first, the
// child output is read only if the child input is not waiting. It
// returns true when the loop has to stop
func (r *Relay) Handle(ev poller.Event) (bool, error) {
	s := &r.state

	switch EndpointID(ev.Token) {
	case Shutdown:
		if ev.Readable {
			log.Println("-- shutdown requested")
			return true, nil
		}

	case UserInput:
		if ev.Readable && s.User.IsOpen() {
			log.Printf("-- %s is readable", UserInput)
			// a read stopping on enter may leave more input behind, and
			// the edge will not fire again for it
			for {
				res, err := r.streams.ReadUser()
				if err != nil {
					return true, err
				}
				s.Pending.Append(res.Text)
				if res.Submitted {
					s.Pending.Append(r.conf.Submit)
				}
				if !res.Open {
					s.User.Close()
					// the terminal going away ends the session, pending
					// input included
					log.Printf("-- %s closed", UserInput)
					return true, nil
				}
				if !res.Submitted {
					break
				}
			}
		}

	case ChildOutput:
		if ev.Readable && s.ChildOut.IsOpen() {
			log.Printf("-- %s is readable", ChildOutput)
			s.ChildOut.Waiting = true
		}

	case ChildInput:
		if s.ChildIn.IsOpen() {
			if ev.Hangup {
				s.ChildIn.Close()
				log.Printf("-- %s hung up", ChildInput)
			} else if ev.Writable {
				log.Printf("-- %s is writable", ChildInput)
				s.ChildIn.Waiting = true
				s.ChildIn.Ready = true
			}
		}
	}

	if (s.ChildIn.Waiting || s.ChildIn.Ready) && s.Pending.Present() {
		if err := r.deliver(); err != nil {
			return true, err
		}
	}

	if !s.ChildIn.Waiting && s.ChildOut.Waiting {
		if err := r.drain(); err != nil {
			return true, err
		}
	}

	return s.Finished(), nil
}

func (r *Relay) deliver() error {
	s := &r.state

	payload, _ := s.Pending.Take()
	log.Printf("-- send %q to %s", payload, ChildInput)
	res, err := r.streams.WriteChild([]byte(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", ChildInput, err)
	}
	s.ChildIn.Waiting = false

	if !res.Open {
		s.ChildIn.Close()
		log.Printf("-- %s closed", ChildInput)
		return nil
	}
	if res.Written < len(payload) {
		// the pipe is full: keep the rest for the next writable edge
		s.ChildIn.Ready = false
		s.Pending.Append(payload[res.Written:])
		log.Printf("-- %d bytes left for %s", len(payload)-res.Written, ChildInput)
	}
	return nil
}

func (r *Relay) drain() error {
	s := &r.state

	log.Printf("-- %s waiting", ChildOutput)
	// one line per read, until the pipe is empty or closed
	for {
		res, err := r.streams.ReadChild()
		if err != nil {
			return fmt.Errorf("%s: %w", ChildOutput, err)
		}
		if res.Text != "" {
			line := strings.TrimSuffix(res.Text, "\n")
			log.Printf("%s: %s", ChildOutput, line)
			if _, err := io.WriteString(r.echo, line+"\n"); err != nil {
				log.Printf("echo: %s", err)
			}
		}
		if !res.Open {
			s.ChildOut.Close()
			log.Printf("-- %s closed", ChildOutput)
			return nil
		}
		if !strings.HasSuffix(res.Text, "\n") {
			return nil
		}
	}
}

// Run waits for readiness batches and handles every event until the
// session ends or a fatal error occurs
func (r *Relay) Run(w Waiter) error {
	events := make([]poller.Event, 0, 16)
	for {
		var err error
		events, err = w.Wait(events)
		if err != nil {
			return fmt.Errorf("wait: %w", err)
		}

		for _, ev := range events {
			done, err := r.Handle(ev)
			if err != nil {
				return err
			}
			if done {
				log.Println("all done")
				return nil
			}
		}
	}
}

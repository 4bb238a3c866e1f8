// Package tty switches the user terminal in and out of raw mode
package tty

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ferama/prelay/pkg/logger"
	"golang.org/x/term"
)

var log = logger.NewLogger("[TTY]  ", logger.White)

// ErrNotTerminal is returned when the descriptor is not a terminal
var ErrNotTerminal = errors.New("not a terminal")

// Terminal is a terminal in raw mode. Restore puts it back as it was
type Terminal struct {
	fd    int
	state *term.State

	restoreOnce sync.Once
}

// IsTerminal reports whether fd is a terminal
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// MakeRaw puts the terminal referred by fd in raw mode: no line
// buffering, no local echo, no signal generation
func MakeRaw(fd int) (*Terminal, error) {
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("fd %d: %w", fd, ErrNotTerminal)
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("terminal make raw: %w", err)
	}
	return &Terminal{fd: fd, state: state}, nil
}

// Restore brings back the terminal state saved by MakeRaw. Only the
// first call has effect
func (t *Terminal) Restore() error {
	var err error
	t.restoreOnce.Do(func() {
		err = term.Restore(t.fd, t.state)
		if err != nil {
			log.Printf("terminal restore: %s", err)
		}
	})
	return err
}

// Size returns the terminal width and height
func (t *Terminal) Size() (int, int, error) {
	return term.GetSize(t.fd)
}

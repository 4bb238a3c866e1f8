//go:build linux

package poller

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Waker is an eventfd that can be registered like any other endpoint.
// Wake is safe to call from any goroutine and makes the descriptor
// readable, unblocking a Wait in progress
type Waker struct {
	fd int
}

// NewWaker creates a non blocking eventfd
func NewWaker() (*Waker, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	return &Waker{fd: fd}, nil
}

// Fd returns the descriptor to register
func (w *Waker) Fd() int {
	return w.fd
}

// Wake signals the waker
func (w *Waker) Wake() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(w.fd, buf[:])
	// the counter is saturated: already awake
	if errors.Is(err, unix.EAGAIN) {
		return nil
	}
	return err
}

// Drain resets the counter so the next Wake produces a new edge
func (w *Waker) Drain() error {
	var buf [8]byte
	_, err := unix.Read(w.fd, buf[:])
	if errors.Is(err, unix.EAGAIN) {
		return nil
	}
	return err
}

// Close releases the eventfd
func (w *Waker) Close() error {
	return unix.Close(w.fd)
}

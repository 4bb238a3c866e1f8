//go:build unix

package rio

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

func isInterrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, unix.EPIPE)
}

//go:build !unix

package rio

import (
	"errors"
	"syscall"
)

func isWouldBlock(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}

func isInterrupted(err error) bool {
	return errors.Is(err, syscall.EINTR)
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}

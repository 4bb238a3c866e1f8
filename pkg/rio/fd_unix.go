//go:build unix

package rio

import (
	"os"

	"golang.org/x/sys/unix"
)

// FD is a raw file descriptor. Reads and writes go straight to the
// syscalls, bypassing the runtime poller, so that EAGAIN on a non
// blocking descriptor reaches ReadStream and WriteStream
type FD struct {
	fd   int
	name string
}

// NewFD wraps fd. The name shows up in logs and errors
func NewFD(fd int, name string) *FD {
	return &FD{fd: fd, name: name}
}

// Fd returns the underlying descriptor
func (f *FD) Fd() int {
	return f.fd
}

func (f *FD) String() string {
	return f.name
}

func (f *FD) Read(p []byte) (int, error) {
	n, err := unix.Read(f.fd, p)
	if n < 0 {
		n = 0
	}
	if err != nil {
		return n, os.NewSyscallError("read", err)
	}
	return n, nil
}

func (f *FD) Write(p []byte) (int, error) {
	n, err := unix.Write(f.fd, p)
	if n < 0 {
		n = 0
	}
	if err != nil {
		return n, os.NewSyscallError("write", err)
	}
	return n, nil
}

// SetNonblock toggles O_NONBLOCK on the descriptor
func (f *FD) SetNonblock(nonblocking bool) error {
	return unix.SetNonblock(f.fd, nonblocking)
}

// Close closes the descriptor
func (f *FD) Close() error {
	return unix.Close(f.fd)
}

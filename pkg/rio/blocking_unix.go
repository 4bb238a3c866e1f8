//go:build unix

package rio

import (
	"os"

	"golang.org/x/sys/unix"
)

// BlockingWriter writes whole buffers to a descriptor that may have been
// switched to non blocking mode behind its back. A terminal shares the
// open file description between stdin and stdout, so making stdin non
// blocking makes stdout non blocking too
type BlockingWriter struct {
	f *FD
}

// NewBlockingWriter wraps f
func NewBlockingWriter(f *FD) *BlockingWriter {
	return &BlockingWriter{f: f}
}

// Fd returns the underlying descriptor, for terminal detection
func (w *BlockingWriter) Fd() uintptr {
	return uintptr(w.f.Fd())
}

// Write returns only once p is fully written or a real error occurs.
// While the descriptor is full it sleeps in poll(2)
func (w *BlockingWriter) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := w.f.Write(p[written:])
		written += n
		switch {
		case err == nil:
		case isInterrupted(err):
		case isWouldBlock(err):
			if err := w.waitWritable(); err != nil {
				return written, err
			}
		default:
			return written, err
		}
	}
	return written, nil
}

func (w *BlockingWriter) waitWritable() error {
	fds := []unix.PollFd{{Fd: int32(w.f.Fd()), Events: unix.POLLOUT}}
	for {
		_, err := unix.Poll(fds, -1)
		if err == nil {
			return nil
		}
		if err != unix.EINTR {
			return os.NewSyscallError("poll", err)
		}
	}
}

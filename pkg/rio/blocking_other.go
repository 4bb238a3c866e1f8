//go:build !unix

package rio

// BlockingWriter is not available on this platform
type BlockingWriter struct {
	f *FD
}

func NewBlockingWriter(f *FD) *BlockingWriter {
	return &BlockingWriter{f: f}
}

func (w *BlockingWriter) Fd() uintptr {
	return uintptr(w.f.Fd())
}

func (w *BlockingWriter) Write(p []byte) (int, error) {
	return 0, errNoFD
}

package logger

import "io"

type crlfWriter struct {
	w io.Writer
}

// NewCRLFWriter returns a writer that turns every bare "\n" into "\r\n".
// A terminal in raw mode doesn't do the translation by itself
func NewCRLFWriter(w io.Writer) io.Writer {
	return &crlfWriter{w: w}
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+8)
	for i, b := range p {
		if b == '\n' && (i == 0 || p[i-1] != '\r') {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	if _, err := c.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

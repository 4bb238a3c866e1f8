package rio

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ferama/prelay/pkg/logger"
)

var log = logger.NewLogger("[RIO]  ", logger.Cyan)

// ErrDecode is returned when a stream sends bytes that are not valid UTF-8
var ErrDecode = errors.New("non-utf8 input")

const (
	scratchSize = 1024

	// DefaultCancelByte is Ctrl-X. Received as the last byte of a chunk in
	// raw escape framing it closes the stream
	DefaultCancelByte byte = 0x18
)

// Framing decides when ReadStream stops accumulating
type Framing int

const (
	// LineFraming stops on a chunk ending with '\n'. Used for child output
	LineFraming Framing = iota
	// RawEscapeFraming stops on a chunk ending with '\r' or with the
	// cancel byte. Used for terminal input
	RawEscapeFraming
)

func (f Framing) String() string {
	switch f {
	case LineFraming:
		return "line"
	case RawEscapeFraming:
		return "raw-escape"
	default:
		return fmt.Sprintf("framing(%d)", int(f))
	}
}

// ReadOptions configures a ReadStream call
type ReadOptions struct {
	// Name is only used in log lines
	Name    string
	Framing Framing
	// CancelByte overrides DefaultCancelByte when non zero
	CancelByte byte
	// OnChunk, if set, is called in line framing after every chunk with
	// the bytes accumulated so far. The slice is only valid during the call
	OnChunk func(acc []byte)
}

// Result is what a ReadStream call accumulated
type Result struct {
	Text string
	// Open is false once the stream reached its end (or was cancelled)
	Open bool
	// Submitted is set in raw escape framing when the read stopped on a
	// carriage return. The carriage return itself is not part of Text
	Submitted bool
}

// ReadStream drains src through a fixed size scratch buffer until the
// framing policy is satisfied, the stream closes or the read would
// block. Interrupted reads are retried. The accumulated bytes must be
// valid UTF-8 or ErrDecode is returned
func ReadStream(src io.Reader, opts ReadOptions) (Result, error) {
	cancel := opts.CancelByte
	if cancel == 0 {
		cancel = DefaultCancelByte
	}

	res := Result{Open: true}
	acc := make([]byte, 0, scratchSize)
	var scratch [scratchSize]byte

	done := false
	for !done {
		n, err := src.Read(scratch[:])
		if n < 0 {
			n = 0
		}

		switch {
		case n > 0:
			chunk := scratch[:n]
			last := chunk[n-1]
			if opts.Framing == RawEscapeFraming {
				switch last {
				case '\r':
					acc = append(acc, chunk[:n-1]...)
					res.Submitted = true
					done = true
				case cancel:
					acc = append(acc, chunk[:n-1]...)
					res.Open = false
					done = true
				default:
					acc = append(acc, chunk...)
				}
			} else {
				acc = append(acc, chunk...)
				if opts.OnChunk != nil {
					opts.OnChunk(acc)
				}
				if last == '\n' {
					done = true
				}
			}
		case err == nil:
			// a zero bytes read is the end of the stream
			res.Open = false
			done = true
		}

		if err != nil && !done {
			switch {
			case errors.Is(err, io.EOF):
				res.Open = false
				done = true
			case isWouldBlock(err):
				done = true
			case isInterrupted(err):
				continue
			default:
				return Result{Text: string(acc), Open: res.Open}, fmt.Errorf("read %s: %w", opts.Name, err)
			}
		}
	}

	if !utf8.Valid(acc) {
		log.Printf("%s sent garbage: %q", opts.Name, acc)
		return Result{Open: res.Open}, fmt.Errorf("read %s: %w", opts.Name, ErrDecode)
	}
	res.Text = string(acc)
	return res, nil
}

// WriteResult is the outcome of a WriteStream call
type WriteResult struct {
	// Written is how many payload bytes the sink accepted
	Written int
	// Open is false if the sink is gone
	Open bool
}

// Complete reports whether the whole payload was accepted
func (w WriteResult) Complete(payload []byte) bool {
	return w.Written == len(payload)
}

// WriteStream writes the unwritten suffix of payload to sink until it is
// all accepted, the sink closes or the write would block. Interrupted
// writes are retried. A broken pipe is reported as a closed sink
func WriteStream(sink io.Writer, payload []byte) (WriteResult, error) {
	res := WriteResult{Open: true}
	for res.Written < len(payload) {
		n, err := sink.Write(payload[res.Written:])
		if n > 0 {
			res.Written += n
		}
		if err == nil {
			if n <= 0 {
				res.Open = false
				return res, nil
			}
			continue
		}

		switch {
		case isWouldBlock(err):
			return res, nil
		case isInterrupted(err):
			continue
		case isBrokenPipe(err):
			res.Open = false
			return res, nil
		default:
			return res, fmt.Errorf("write: %w", err)
		}
	}
	return res, nil
}

package relay

import (
	"io"

	"github.com/ferama/prelay/pkg/rio"
)

// Streams are the three byte streams the relay moves data between
type Streams interface {
	// ReadUser reads terminal input in raw escape framing
	ReadUser() (rio.Result, error)
	// ReadChild reads child output in line framing
	ReadChild() (rio.Result, error)
	// WriteChild delivers payload to the child input
	WriteChild(payload []byte) (rio.WriteResult, error)
}

// IOStreams implements Streams on top of plain readers and writers. For
// the relay to work they must be non blocking descriptors (see rio.FD)
type IOStreams struct {
	user       io.Reader
	childOut   io.Reader
	childIn    io.Writer
	cancelByte byte
}

// NewIOStreams builds the streams. A zero cancelByte selects
// rio.DefaultCancelByte
func NewIOStreams(user io.Reader, childOut io.Reader, childIn io.Writer, cancelByte byte) *IOStreams {
	return &IOStreams{
		user:       user,
		childOut:   childOut,
		childIn:    childIn,
		cancelByte: cancelByte,
	}
}

func (s *IOStreams) ReadUser() (rio.Result, error) {
	return rio.ReadStream(s.user, rio.ReadOptions{
		Name:       UserInput.String(),
		Framing:    rio.RawEscapeFraming,
		CancelByte: s.cancelByte,
	})
}

func (s *IOStreams) ReadChild() (rio.Result, error) {
	return rio.ReadStream(s.childOut, rio.ReadOptions{
		Name:    ChildOutput.String(),
		Framing: rio.LineFraming,
		OnChunk: func(acc []byte) {
			log.Printf("-- %s: %q", ChildOutput, acc)
		},
	})
}

func (s *IOStreams) WriteChild(payload []byte) (rio.WriteResult, error) {
	return rio.WriteStream(s.childIn, payload)
}

//go:build !linux

package poller

// Poller is not available on this platform
type Poller struct{}

// NewPoller always fails with ErrUnsupported
func NewPoller(capacity int) (*Poller, error) {
	return nil, ErrUnsupported
}

func (p *Poller) Register(fd int, token Token, interest Interest) error {
	return ErrUnsupported
}

func (p *Poller) Wait(events []Event) ([]Event, error) {
	return events[:0], ErrUnsupported
}

func (p *Poller) Close() error {
	return nil
}

// Waker is not available on this platform
type Waker struct{}

// NewWaker always fails with ErrUnsupported
func NewWaker() (*Waker, error) {
	return nil, ErrUnsupported
}

func (w *Waker) Fd() int {
	return -1
}

func (w *Waker) Wake() error {
	return ErrUnsupported
}

func (w *Waker) Drain() error {
	return ErrUnsupported
}

func (w *Waker) Close() error {
	return nil
}

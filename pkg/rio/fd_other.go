//go:build !unix

package rio

import "errors"

var errNoFD = errors.New("rio: raw descriptors are not supported on this platform")

// FD is not available on this platform
type FD struct {
	fd   int
	name string
}

func NewFD(fd int, name string) *FD {
	return &FD{fd: fd, name: name}
}

func (f *FD) Fd() int {
	return f.fd
}

func (f *FD) String() string {
	return f.name
}

func (f *FD) Read(p []byte) (int, error) {
	return 0, errNoFD
}

func (f *FD) Write(p []byte) (int, error) {
	return 0, errNoFD
}

func (f *FD) SetNonblock(nonblocking bool) error {
	return errNoFD
}

func (f *FD) Close() error {
	return errNoFD
}

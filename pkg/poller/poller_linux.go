//go:build linux

package poller

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Poller is an epoll based readiness multiplexer
type Poller struct {
	epfd      int
	raw       []unix.EpollEvent
	interests map[Token]Interest
}

// NewPoller creates a poller able to report up to capacity events per
// wake up. A non positive capacity selects the default
func NewPoller(capacity int) (*Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Poller{
		epfd:      epfd,
		raw:       make([]unix.EpollEvent, capacity),
		interests: make(map[Token]Interest),
	}, nil
}

// Register adds fd to the watch list, edge triggered
func (p *Poller) Register(fd int, token Token, interest Interest) error {
	if _, ok := p.interests[token]; ok {
		return fmt.Errorf("epoll ctl add: token %d already registered", token)
	}
	var ev unix.EpollEvent
	ev.Events = unix.EPOLLET
	if interest&Readable != 0 {
		ev.Events |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if interest&Writable != 0 {
		ev.Events |= unix.EPOLLOUT
	}
	// the kernel hands this back untouched, so it carries the token
	ev.Fd = int32(token)

	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd %d: %w", fd, err)
	}
	p.interests[token] = interest
	log.Printf("registered fd %d as token %d (%s)", fd, token, interest)
	return nil
}

// Wait blocks until at least one registered descriptor is ready and
// returns the batch appended to events[:0]. There is no timeout
func (p *Poller) Wait(events []Event) ([]Event, error) {
	events = events[:0]
	for {
		n, err := unix.EpollWait(p.epfd, p.raw, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return events, fmt.Errorf("epoll wait: %w", err)
		}

		for _, raw := range p.raw[:n] {
			token := Token(raw.Fd)
			interest := p.interests[token]
			hangup := raw.Events&(unix.EPOLLHUP|unix.EPOLLERR|unix.EPOLLRDHUP) != 0

			events = append(events, Event{
				Token:    token,
				Readable: raw.Events&(unix.EPOLLIN|unix.EPOLLPRI) != 0 || (hangup && interest&Readable != 0),
				Writable: raw.Events&unix.EPOLLOUT != 0,
				Hangup:   hangup,
			})
		}
		return events, nil
	}
}

// Close releases the epoll descriptor
func (p *Poller) Close() error {
	return unix.Close(p.epfd)
}

package session

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ferama/prelay/pkg/child"
	"github.com/ferama/prelay/pkg/conf"
	"github.com/ferama/prelay/pkg/logger"
	"github.com/ferama/prelay/pkg/poller"
	"github.com/ferama/prelay/pkg/relay"
	"github.com/ferama/prelay/pkg/rio"
	"github.com/ferama/prelay/pkg/tty"
)

var log = logger.NewLogger("[SESS] ", logger.Green)

// Session wires the user terminal, the child process and the relay loop
// together and owns their teardown
type Session struct {
	cfg *conf.Config

	stdin  *os.File
	stdout *os.File

	waker   *poller.Waker
	wakerMu sync.Mutex
	stopped bool
}

// NewSession creates a session relaying the process standard input and
// output to the child described by cfg
func NewSession(cfg *conf.Config) *Session {
	return &Session{
		cfg:    cfg,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

// Start runs the session until the user input closes, both child
// streams close, Stop is called or a fatal error occurs. Whatever the
// reason, the child is killed and the terminal restored before returning
func (s *Session) Start() error {
	if err := s.cfg.Normalize(); err != nil {
		return err
	}

	// stdin goes non blocking below, which may drag stdout along
	stdout := rio.NewBlockingWriter(rio.NewFD(int(s.stdout.Fd()), "stdout"))
	var out io.Writer = stdout
	if path := s.cfg.Log.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
		defer logger.SetOutput(os.Stdout)
	} else if !s.cfg.Relay.Raw {
		logger.SetOutput(rio.NewBlockingWriter(rio.NewFD(int(os.Stdout.Fd()), "stdout")))
		defer logger.SetOutput(os.Stdout)
	}

	stdin := rio.NewFD(int(s.stdin.Fd()), "stdin")
	if s.cfg.Relay.Raw {
		terminal, err := tty.MakeRaw(stdin.Fd())
		if err != nil {
			return err
		}
		defer terminal.Restore()

		out = logger.NewCRLFWriter(stdout)
		if s.cfg.Log.File == "" {
			logger.SetOutput(out)
			defer logger.SetOutput(os.Stdout)
		}
		if w, h, err := terminal.Size(); err == nil {
			log.Printf("terminal is %dx%d, raw mode on", w, h)
		}
	}

	if err := stdin.SetNonblock(true); err != nil {
		return fmt.Errorf("stdin non blocking: %w", err)
	}
	defer stdin.SetNonblock(false)

	p, err := poller.NewPoller(0)
	if err != nil {
		return err
	}
	defer p.Close()

	waker, err := s.newWaker()
	if err != nil {
		return err
	}
	defer s.closeWaker()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer func() {
		signal.Stop(signals)
		close(signals)
	}()
	go func() {
		for sig := range signals {
			log.Printf("got %s", sig)
			s.Stop()
		}
	}()

	c, err := child.Start(s.cfg.Child)
	if err != nil {
		return err
	}
	// forced termination, whatever the exit path
	defer c.Close()

	registrations := []struct {
		fd       int
		endpoint relay.EndpointID
		interest poller.Interest
	}{
		{stdin.Fd(), relay.UserInput, poller.Readable},
		{c.Stdout.Fd(), relay.ChildOutput, poller.Readable},
		{c.Stdin.Fd(), relay.ChildInput, poller.Writable},
		{waker.Fd(), relay.Shutdown, poller.Readable},
	}
	for _, reg := range registrations {
		if err := p.Register(reg.fd, reg.endpoint.Token(), reg.interest); err != nil {
			return fmt.Errorf("register %s: %w", reg.endpoint, err)
		}
	}

	streams := relay.NewIOStreams(stdin, c.Stdout, c.Stdin, s.cfg.Relay.CancelByte)
	r := relay.NewRelay(streams, s.cfg.Relay, out)
	return r.Run(p)
}

// Stop asks a running session to terminate. It is safe to call from any
// goroutine, even before Start
func (s *Session) Stop() {
	s.wakerMu.Lock()
	defer s.wakerMu.Unlock()

	s.stopped = true
	if s.waker != nil {
		s.waker.Wake()
	}
}

func (s *Session) newWaker() (*poller.Waker, error) {
	waker, err := poller.NewWaker()
	if err != nil {
		return nil, err
	}

	s.wakerMu.Lock()
	defer s.wakerMu.Unlock()
	s.waker = waker
	if s.stopped {
		waker.Wake()
	}
	return waker, nil
}

func (s *Session) closeWaker() {
	s.wakerMu.Lock()
	defer s.wakerMu.Unlock()

	if s.waker != nil {
		s.waker.Close()
		s.waker = nil
	}
}

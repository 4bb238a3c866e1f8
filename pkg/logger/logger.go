package logger

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	Red     = termenv.ANSIRed
	Green   = termenv.ANSIGreen
	Yellow  = termenv.ANSIYellow
	Blue    = termenv.ANSIBlue
	Magenta = termenv.ANSIMagenta
	Cyan    = termenv.ANSICyan
	White   = termenv.ANSIWhite
)

type entry struct {
	logger *log.Logger
	prefix string
	color  termenv.ANSIColor
}

var (
	mu      sync.Mutex
	entries []*entry
	output  io.Writer = os.Stdout
)

// NewLogger builds up and return a new logger. The prefix is colored
// only if the current output is a terminal
func NewLogger(prefix string, color termenv.ANSIColor) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	e := &entry{
		logger: log.New(output, colorize(output, prefix, color), log.LstdFlags),
		prefix: prefix,
		color:  color,
	}
	entries = append(entries, e)
	return e.logger
}

// SetOutput redirects all the loggers built by NewLogger, the existing
// ones included, to w
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	output = w
	for _, e := range entries {
		e.logger.SetOutput(w)
		e.logger.SetPrefix(colorize(w, e.prefix, e.color))
	}
}

// DisableLoggers silences every logger
func DisableLoggers() {
	SetOutput(io.Discard)
}

func colorize(w io.Writer, prefix string, color termenv.ANSIColor) string {
	if !isTerminal(w) {
		return prefix
	}
	out := termenv.NewOutput(w, termenv.WithProfile(termenv.ANSI))
	return out.String(prefix).Foreground(color).String()
}

func isTerminal(w io.Writer) bool {
	if c, ok := w.(*crlfWriter); ok {
		return isTerminal(c.w)
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

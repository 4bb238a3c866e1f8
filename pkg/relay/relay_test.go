package relay

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/ferama/prelay/pkg/poller"
	"github.com/ferama/prelay/pkg/rio"
)

// fakeStreams replays queued results and records every call
type fakeStreams struct {
	user   []rio.Result
	child  []rio.Result
	writes []rio.WriteResult

	userErr  error
	childErr error
	writeErr error

	calls   []string
	written []string
}

func (f *fakeStreams) ReadUser() (rio.Result, error) {
	f.calls = append(f.calls, "read-user")
	if f.userErr != nil {
		return rio.Result{}, f.userErr
	}
	if len(f.user) == 0 {
		return rio.Result{Open: true}, nil
	}
	res := f.user[0]
	f.user = f.user[1:]
	return res, nil
}

func (f *fakeStreams) ReadChild() (rio.Result, error) {
	f.calls = append(f.calls, "read-child")
	if f.childErr != nil {
		return rio.Result{}, f.childErr
	}
	if len(f.child) == 0 {
		return rio.Result{Open: true}, nil
	}
	res := f.child[0]
	f.child = f.child[1:]
	return res, nil
}

func (f *fakeStreams) WriteChild(payload []byte) (rio.WriteResult, error) {
	f.calls = append(f.calls, "write-child:"+string(payload))
	if f.writeErr != nil {
		return rio.WriteResult{}, f.writeErr
	}
	f.written = append(f.written, string(payload))
	if len(f.writes) == 0 {
		return rio.WriteResult{Written: len(payload), Open: true}, nil
	}
	res := f.writes[0]
	f.writes = f.writes[1:]
	return res, nil
}

func readable(e EndpointID) poller.Event {
	return poller.Event{Token: e.Token(), Readable: true}
}

func writable(e EndpointID) poller.Event {
	return poller.Event{Token: e.Token(), Writable: true}
}

func mustHandle(t *testing.T, r *Relay, ev poller.Event) bool {
	t.Helper()
	done, err := r.Handle(ev)
	if err != nil {
		t.Fatal(err)
	}
	return done
}

func TestUserLineDelivered(t *testing.T) {
	fs := &fakeStreams{user: []rio.Result{{Text: "hello", Open: true, Submitted: true}}}
	r := NewRelay(fs, nil, nil)

	if mustHandle(t, r, readable(UserInput)) {
		t.Fatal("should not terminate")
	}
	s := r.State()
	if text, ok := s.Pending.Peek(); !ok || text != "hello" {
		t.Fatalf("pending %q %v", text, ok)
	}

	mustHandle(t, r, writable(ChildInput))
	if len(fs.written) != 1 || fs.written[0] != "hello" {
		t.Fatalf("written %q", fs.written)
	}
	s = r.State()
	if s.Pending.Present() || s.ChildIn.Waiting {
		t.Fatalf("state after delivery: %+v", s)
	}
}

func TestSubmitSuffix(t *testing.T) {
	fs := &fakeStreams{user: []rio.Result{
		{Text: "bo", Open: true},
		{Text: "b", Open: true, Submitted: true},
	}}
	r := NewRelay(fs, &RelayConf{Submit: "\n"}, nil)

	mustHandle(t, r, readable(UserInput))
	mustHandle(t, r, readable(UserInput))
	s := r.State()
	if text, _ := s.Pending.Peek(); text != "bob\n" {
		t.Fatalf("pending %q", text)
	}
}

func TestChildLinesEchoed(t *testing.T) {
	fs := &fakeStreams{child: []rio.Result{
		{Text: "begin\n", Open: true},
		{Text: "hi bob\n", Open: true},
	}}
	var echo bytes.Buffer
	r := NewRelay(fs, nil, &echo)

	mustHandle(t, r, readable(ChildOutput))
	mustHandle(t, r, readable(ChildOutput))

	if echo.String() != "begin\nhi bob\n" {
		t.Fatalf("echo %q", echo.String())
	}
	s := r.State()
	if !s.ChildOut.IsOpen() || !s.ChildOut.Waiting {
		t.Fatalf("child output should stay open and waiting: %+v", s.ChildOut)
	}
}

func TestChildOutputEndOfStream(t *testing.T) {
	fs := &fakeStreams{child: []rio.Result{{Text: "en", Open: false}}}
	var echo bytes.Buffer
	r := NewRelay(fs, nil, &echo)

	if mustHandle(t, r, readable(ChildOutput)) {
		t.Fatal("child input is still open")
	}
	s := r.State()
	if s.ChildOut.IsOpen() || s.ChildOut.Waiting {
		t.Fatalf("child output should be closed: %+v", s.ChildOut)
	}
	if echo.String() != "en\n" {
		t.Fatalf("echo %q", echo.String())
	}

	// further events on a closed endpoint are ignored
	mustHandle(t, r, readable(ChildOutput))
	if len(fs.calls) != 1 {
		t.Fatalf("calls %q", fs.calls)
	}
}

func TestBothChildEndpointsClosed(t *testing.T) {
	fs := &fakeStreams{
		child:  []rio.Result{{Open: false}},
		user:   []rio.Result{{Text: "x", Open: true}},
		writes: []rio.WriteResult{{Written: 0, Open: false}},
	}
	r := NewRelay(fs, nil, nil)

	if mustHandle(t, r, readable(ChildOutput)) {
		t.Fatal("child input still open")
	}
	if mustHandle(t, r, readable(UserInput)) {
		t.Fatal("child input still open")
	}
	if !mustHandle(t, r, writable(ChildInput)) {
		t.Fatal("both child endpoints are closed, should terminate")
	}
	s := r.State()
	if !s.User.IsOpen() {
		t.Fatal("user input was never closed")
	}
}

func TestChildInputHangup(t *testing.T) {
	fs := &fakeStreams{child: []rio.Result{{Open: false}}}
	r := NewRelay(fs, nil, nil)

	mustHandle(t, r, readable(ChildOutput))
	ev := poller.Event{Token: ChildInput.Token(), Writable: true, Hangup: true}
	if !mustHandle(t, r, ev) {
		t.Fatal("should terminate")
	}
	if len(fs.written) != 0 {
		t.Fatalf("nothing should be written: %q", fs.written)
	}
}

func TestUserInputClosed(t *testing.T) {
	fs := &fakeStreams{user: []rio.Result{
		{Text: "abc", Open: true},
		{Text: "", Open: false},
	}}
	r := NewRelay(fs, nil, nil)

	if mustHandle(t, r, readable(UserInput)) {
		t.Fatal("should not terminate yet")
	}
	if !mustHandle(t, r, readable(UserInput)) {
		t.Fatal("user input closed, should terminate")
	}
	if len(fs.written) != 0 {
		t.Fatalf("pending input must be discarded: %q", fs.written)
	}
	s := r.State()
	if s.User.IsOpen() {
		t.Fatal("user input should be closed")
	}
	if !s.ChildIn.IsOpen() || !s.ChildOut.IsOpen() {
		t.Fatal("child endpoints untouched")
	}
}

func TestWriteBeforeRead(t *testing.T) {
	fs := &fakeStreams{
		user:  []rio.Result{{Text: "bob", Open: true, Submitted: true}},
		child: []rio.Result{{Text: "hi bob\n", Open: true}},
	}
	r := NewRelay(fs, nil, nil)

	// child input writable with nothing to send holds child output back
	mustHandle(t, r, writable(ChildInput))
	mustHandle(t, r, readable(ChildOutput))
	if len(fs.calls) != 0 {
		t.Fatalf("no stream should be touched yet: %q", fs.calls)
	}

	mustHandle(t, r, readable(UserInput))
	expected := []string{"read-user", "read-user", "write-child:bob", "read-child", "read-child"}
	if fmt.Sprint(fs.calls) != fmt.Sprint(expected) {
		t.Fatalf("calls %q expected %q", fs.calls, expected)
	}
}

func TestPartialWriteKeepsRemainder(t *testing.T) {
	fs := &fakeStreams{
		user:   []rio.Result{{Text: "hello", Open: true}, {Text: "!", Open: true}},
		writes: []rio.WriteResult{{Written: 2, Open: true}},
	}
	r := NewRelay(fs, nil, nil)

	mustHandle(t, r, writable(ChildInput))
	mustHandle(t, r, readable(UserInput))
	s := r.State()
	if text, _ := s.Pending.Peek(); text != "llo" {
		t.Fatalf("pending %q", text)
	}
	if s.ChildIn.Waiting || s.ChildIn.Ready {
		t.Fatal("child input is not writable anymore")
	}

	mustHandle(t, r, readable(UserInput))
	mustHandle(t, r, writable(ChildInput))
	expected := []string{"hello", "llo!"}
	if fmt.Sprint(fs.written) != fmt.Sprint(expected) {
		t.Fatalf("written %q expected %q", fs.written, expected)
	}
	s = r.State()
	if s.Pending.Present() {
		t.Fatal("pending should be cleared")
	}
}

func TestKeystrokesAfterFirstDelivery(t *testing.T) {
	fs := &fakeStreams{user: []rio.Result{
		{Text: "b", Open: true},
		{Text: "o", Open: true},
		{Text: "b", Open: true, Submitted: true},
	}}
	r := NewRelay(fs, &RelayConf{Submit: "\n"}, nil)

	// the only writable edge the sink reports while it has room
	mustHandle(t, r, writable(ChildInput))
	for i := 0; i < 3; i++ {
		mustHandle(t, r, readable(UserInput))
	}

	expected := []string{"b", "o", "b\n"}
	if fmt.Sprint(fs.written) != fmt.Sprint(expected) {
		t.Fatalf("written %q expected %q", fs.written, expected)
	}
	s := r.State()
	if s.Pending.Present() || s.ChildIn.Waiting || !s.ChildIn.Ready {
		t.Fatalf("child input after delivery: %+v", s.ChildIn)
	}
}

func TestReadyDoesNotHoldChildOutput(t *testing.T) {
	fs := &fakeStreams{
		user:  []rio.Result{{Text: "x", Open: true}},
		child: []rio.Result{{Text: "got x\n", Open: true}},
	}
	var echo bytes.Buffer
	r := NewRelay(fs, nil, &echo)

	mustHandle(t, r, writable(ChildInput))
	mustHandle(t, r, readable(UserInput))
	mustHandle(t, r, readable(ChildOutput))
	if echo.String() != "got x\n" {
		t.Fatalf("echo %q", echo.String())
	}
}

func TestPartialWriteWaitsForEdge(t *testing.T) {
	fs := &fakeStreams{
		user: []rio.Result{
			{Text: "abcd", Open: true},
			{Text: "e", Open: true},
			{Text: "f", Open: true},
		},
		writes: []rio.WriteResult{{Written: 1, Open: true}},
	}
	r := NewRelay(fs, nil, nil)

	mustHandle(t, r, writable(ChildInput))
	mustHandle(t, r, readable(UserInput))
	mustHandle(t, r, readable(UserInput))
	s := r.State()
	if s.ChildIn.Ready {
		t.Fatal("a full sink is not ready")
	}
	if text, _ := s.Pending.Peek(); text != "bcde" {
		t.Fatalf("pending %q", text)
	}

	mustHandle(t, r, writable(ChildInput))
	mustHandle(t, r, readable(UserInput))
	expected := []string{"abcd", "bcde", "f"}
	if fmt.Sprint(fs.written) != fmt.Sprint(expected) {
		t.Fatalf("written %q expected %q", fs.written, expected)
	}
}

func TestShutdownEvent(t *testing.T) {
	r := NewRelay(&fakeStreams{}, nil, nil)
	if !mustHandle(t, r, readable(Shutdown)) {
		t.Fatal("shutdown should terminate")
	}
}

func TestStreamErrors(t *testing.T) {
	fs := &fakeStreams{userErr: rio.ErrDecode}
	r := NewRelay(fs, nil, nil)
	if _, err := r.Handle(readable(UserInput)); !errors.Is(err, rio.ErrDecode) {
		t.Fatalf("expected ErrDecode got %v", err)
	}

	boom := errors.New("boom")
	fs = &fakeStreams{childErr: boom}
	r = NewRelay(fs, nil, nil)
	if _, err := r.Handle(readable(ChildOutput)); !errors.Is(err, boom) {
		t.Fatalf("expected boom got %v", err)
	}

	fs = &fakeStreams{writeErr: boom, user: []rio.Result{{Text: "x", Open: true}}}
	r = NewRelay(fs, nil, nil)
	mustHandle(t, r, readable(UserInput))
	if _, err := r.Handle(writable(ChildInput)); !errors.Is(err, boom) {
		t.Fatalf("expected boom got %v", err)
	}
}

// scriptWaiter returns one batch per Wait call
type scriptWaiter struct {
	batches [][]poller.Event
}

var errNoMoreEvents = errors.New("no more events")

func (w *scriptWaiter) Wait(events []poller.Event) ([]poller.Event, error) {
	if len(w.batches) == 0 {
		return events[:0], errNoMoreEvents
	}
	batch := w.batches[0]
	w.batches = w.batches[1:]
	return append(events[:0], batch...), nil
}

func TestRunSession(t *testing.T) {
	fs := &fakeStreams{
		user: []rio.Result{{Text: "bob", Open: true, Submitted: true}},
		child: []rio.Result{
			{Text: "begin\n", Open: true},
			{Text: "hi bob\n", Open: true},
			{Text: "end\n", Open: false},
		},
	}
	w := &scriptWaiter{batches: [][]poller.Event{
		{readable(ChildOutput)},
		{writable(ChildInput)},
		{readable(UserInput)},
		{readable(ChildOutput)},
		{{Token: ChildInput.Token(), Hangup: true}},
		{readable(UserInput)},
	}}
	var echo bytes.Buffer
	r := NewRelay(fs, &RelayConf{Submit: "\n"}, &echo)

	if err := r.Run(w); err != nil {
		t.Fatal(err)
	}
	if echo.String() != "begin\nhi bob\nend\n" {
		t.Fatalf("echo %q", echo.String())
	}
	if fmt.Sprint(fs.written) != fmt.Sprint([]string{"bob\n"}) {
		t.Fatalf("written %q", fs.written)
	}
	if len(w.batches) != 1 {
		t.Fatalf("loop should stop on the hangup, %d batches left", len(w.batches))
	}
}

func TestRunWaitError(t *testing.T) {
	r := NewRelay(&fakeStreams{}, nil, nil)
	err := r.Run(&scriptWaiter{})
	if !errors.Is(err, errNoMoreEvents) {
		t.Fatalf("expected wait error got %v", err)
	}
}

// Package mocktransport is a scripted transport.Endpoints implementation
// used to replay the end-to-end scenarios of SPEC_FULL.md §8 against the
// real association/measurement code without a physical device attached.
// It follows the shape of the teacher's examples/custom_channel mock
// channel: a hand-rolled test double implementing the same interface
// production code consumes, driven by an explicit script instead of a
// live connection.
package mocktransport

import (
	"errors"
	"sync"
	"time"

	"accuchek/phd-go/pkg/transport"
)

// Step is one scripted transfer. Exactly one of Expect (an outbound frame
// this step asserts the caller wrote) or Reply (an inbound frame this step
// hands back) is meaningful, selected by Kind.
type Step struct {
	Kind  StepKind
	Frame []byte // for KindReply: the bytes to return; for KindExpectSend: the expected outbound bytes (nil = don't check)
	Err   error  // for KindReply/KindExpectSend: return this error instead
}

// StepKind selects whether a Step is consumed by BulkOut or BulkIn.
type StepKind int

const (
	KindExpectSend StepKind = iota
	KindReply
)

// Endpoints replays a fixed Step script. BulkOut consumes KindExpectSend
// steps in order; BulkIn consumes KindReply steps in order. Mismatched
// order (e.g. a BulkIn call when the next step expects a send) is a hard
// test failure, not a silent skip, since the association state machine's
// ordering guarantees are exactly what these scripts exercise.
type Endpoints struct {
	mu    sync.Mutex
	steps []Step
	sent  [][]byte

	// replyOff tracks how many bytes of the current head-of-queue
	// KindReply step's Frame have already been delivered. A single
	// scripted reply can take more than one BulkIn call to drain,
	// exactly as a real URB can hand the header and the body to
	// FrameTransport.Recv separately; the step is only dequeued once
	// fully consumed.
	replyOff int

	// OnMismatch is called (if set) instead of panicking when the script
	// and the actual call sequence disagree, so callers using testify can
	// route mismatches through require.Fail with full context.
	OnMismatch func(msg string)
}

// New creates a scripted Endpoints over steps, played back in order.
func New(steps []Step) *Endpoints {
	return &Endpoints{steps: steps}
}

// ErrScriptExhausted is returned once every scripted step has been
// consumed and another transfer is attempted.
var ErrScriptExhausted = errors.New("mocktransport: script exhausted")

// BulkOut consumes the next KindExpectSend step and records data for
// later inspection via Sent.
func (e *Endpoints) BulkOut(data []byte, timeout time.Duration) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.steps) == 0 {
		e.fail("BulkOut called with no steps remaining")
		return 0, ErrScriptExhausted
	}
	step := e.steps[0]
	if step.Kind != KindExpectSend {
		e.fail("BulkOut called but next scripted step is a reply")
		return 0, transport.ErrIoFatal
	}
	e.steps = e.steps[1:]

	cp := make([]byte, len(data))
	copy(cp, data)
	e.sent = append(e.sent, cp)

	if step.Err != nil {
		return 0, step.Err
	}
	if step.Frame != nil && !equalBytes(step.Frame, data) {
		e.fail("BulkOut payload did not match scripted expectation")
	}
	return len(data), nil
}

// BulkIn consumes from the head-of-queue KindReply step, copying as much
// of its remaining, not-yet-delivered frame bytes into buf as fit. The
// step is only dequeued once its frame is fully drained, so a reader that
// asks for the frame in several short calls (as FrameTransport.Recv does:
// a 4-byte header read, then the rest) sees the same bytes a real
// multi-URB transfer would deliver.
func (e *Endpoints) BulkIn(buf []byte, timeout time.Duration) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.steps) == 0 {
		return 0, ErrScriptExhausted
	}
	step := e.steps[0]
	if step.Kind != KindReply {
		e.fail("BulkIn called but next scripted step is an expected send")
		return 0, transport.ErrIoFatal
	}

	if step.Err != nil {
		e.steps = e.steps[1:]
		e.replyOff = 0
		return 0, step.Err
	}

	n := copy(buf, step.Frame[e.replyOff:])
	e.replyOff += n
	if e.replyOff >= len(step.Frame) {
		e.steps = e.steps[1:]
		e.replyOff = 0
	}
	return n, nil
}

// Sent returns every frame previously handed to BulkOut, for assertions.
func (e *Endpoints) Sent() [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sent
}

// Remaining reports how many scripted steps have not yet been consumed.
func (e *Endpoints) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.steps)
}

func (e *Endpoints) fail(msg string) {
	if e.OnMismatch != nil {
		e.OnMismatch(msg)
		return
	}
	panic("mocktransport: " + msg)
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Reply builds a KindReply step.
func Reply(frame []byte) Step { return Step{Kind: KindReply, Frame: frame} }

// ReplyErr builds a KindReply step that fails with err instead of
// returning data — used to script IoTimeout scenarios (§8 scenario 5).
func ReplyErr(err error) Step { return Step{Kind: KindReply, Err: err} }

// Send builds a KindExpectSend step. A nil frame accepts any outbound
// payload; a non-nil frame is compared byte-for-byte.
func Send(frame []byte) Step { return Step{Kind: KindExpectSend, Frame: frame} }

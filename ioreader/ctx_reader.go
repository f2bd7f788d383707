package ioreader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/windward-avionics/mavgo/mavlinkerr"
)

// deadlineSetter is satisfied by net.Conn and most serial ports. CtxReader
// uses it to turn a blocking Read into one it can abandon when ctx is
// cancelled, since Go has no async cancellation of an in-flight syscall.
type deadlineSetter interface {
	SetReadDeadline(t time.Time) error
}

// pollInterval bounds how long a single underlying Read call is allowed to
// block before CtxReader re-checks ctx. Short enough that cancellation
// feels immediate, long enough not to dominate CPU on an idle link.
const pollInterval = 100 * time.Millisecond

// CtxReader is the cooperative-scheduling twin of Reader: identical
// buffering and peek/consume semantics, but PeekExact and Discard take a
// context.Context and return ctx.Err() promptly if the link stalls instead
// of blocking forever. If the wrapped reader does not support
// SetReadDeadline, cancellation can only take effect between reads.
// NewCtxBounded gives it the same fixed-capacity buffer NewBounded gives
// Reader, for the embedded (no-allocation) tier.
type CtxReader struct {
	r                  io.Reader
	deadlines          deadlineSetter
	buf                []byte
	cursor             int
	preferredChunkSize int
	maxSize            int // 0 means unbounded growth
	eof                bool
}

// NewCtx wraps r for cooperative use. If r implements SetReadDeadline (as
// net.Conn and go.bug.st/serial.Port do), CtxReader polls ctx between
// bounded reads; otherwise a Read already in flight cannot be interrupted.
func NewCtx(r io.Reader) *CtxReader {
	cr := &CtxReader{r: r, preferredChunkSize: DefaultChunkSize}
	if d, ok := r.(deadlineSetter); ok {
		cr.deadlines = d
	}
	return cr
}

// NewCtxBounded wraps r for cooperative use with a buffer capped at
// maxSize bytes, allocated once here and never grown; see NewBounded.
func NewCtxBounded(r io.Reader, maxSize int) *CtxReader {
	chunkSize := maxSize
	if chunkSize > DefaultChunkSize {
		chunkSize = DefaultChunkSize
	}
	cr := &CtxReader{
		r:                  r,
		buf:                make([]byte, 0, maxSize),
		preferredChunkSize: chunkSize,
		maxSize:            maxSize,
	}
	if d, ok := r.(deadlineSetter); ok {
		cr.deadlines = d
	}
	return cr
}

func (p *CtxReader) Buffered() int {
	return len(p.buf) - p.cursor
}

func (p *CtxReader) compact() {
	if p.cursor == 0 {
		return
	}
	p.buf = append(p.buf[:0], p.buf[p.cursor:]...)
	p.cursor = 0
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func (p *CtxReader) fill(ctx context.Context, n int) error {
	if p.maxSize > 0 && n > p.maxSize {
		return fmt.Errorf("ioreader: need %d bytes but buffer is capped at %d: %w", n, p.maxSize, mavlinkerr.ErrCapacity)
	}
	for p.Buffered() < n {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.eof {
			return fmt.Errorf("ioreader: need %d, have %d: %w", n, p.Buffered(), mavlinkerr.ErrUnexpectedEOF)
		}
		p.compact()
		want := p.preferredChunkSize
		if need := n - p.Buffered(); need > want {
			want = need
		}
		if p.deadlines != nil {
			_ = p.deadlines.SetReadDeadline(time.Now().Add(pollInterval))
		}

		var chunk []byte
		if p.maxSize > 0 {
			if headroom := p.maxSize - len(p.buf); want > headroom {
				want = headroom
			}
			if want <= 0 {
				return fmt.Errorf("ioreader: need %d bytes but buffer is capped at %d: %w", n, p.maxSize, mavlinkerr.ErrCapacity)
			}
			base := len(p.buf)
			p.buf = p.buf[:base+want]
			chunk = p.buf[base : base+want]
		} else {
			chunk = make([]byte, want)
		}

		nRead, err := p.r.Read(chunk)
		if p.maxSize > 0 {
			p.buf = p.buf[:len(p.buf)-want+nRead]
		} else if nRead > 0 {
			p.buf = append(p.buf, chunk[:nRead]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.eof = true
				continue
			}
			if p.deadlines != nil && isTimeout(err) {
				continue
			}
			return err
		}
		if nRead == 0 {
			return fmt.Errorf("ioreader: reader made no progress: %w", mavlinkerr.ErrUnexpectedEOF)
		}
	}
	return nil
}

// PeekExact returns the next n unconsumed bytes without advancing the
// cursor, or ctx.Err() if ctx is cancelled before n bytes arrive.
func (p *CtxReader) PeekExact(ctx context.Context, n int) ([]byte, error) {
	if err := p.fill(ctx, n); err != nil {
		return nil, err
	}
	return p.buf[p.cursor : p.cursor+n], nil
}

// Consume advances the cursor past n already-peeked bytes.
func (p *CtxReader) Consume(n int) {
	if n < 0 || n > p.Buffered() {
		panic(fmt.Sprintf("ioreader: consume %d exceeds buffered %d", n, p.Buffered()))
	}
	p.cursor += n
	if p.cursor == len(p.buf) {
		p.buf = p.buf[:0]
		p.cursor = 0
	}
}

// ReadExact reads and consumes exactly n bytes.
func (p *CtxReader) ReadExact(ctx context.Context, n int) ([]byte, error) {
	b, err := p.PeekExact(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	p.Consume(n)
	return out, nil
}

// Discard consumes and discards exactly n bytes, refilling as needed
// under ctx. It fails, consuming nothing, if n bytes cannot be buffered.
func (p *CtxReader) Discard(ctx context.Context, n int) error {
	if err := p.fill(ctx, n); err != nil {
		return err
	}
	p.Consume(n)
	return nil
}

// Package ioreader implements a buffered, peekable reader used by the frame
// parser to look ahead for a resync point without consuming bytes it cannot
// yet use, and to report exactly how many bytes are on hand when a read
// comes up short.
package ioreader

import (
	"errors"
	"fmt"
	"io"

	"github.com/windward-avionics/mavgo/mavlinkerr"
)

// DefaultChunkSize is how many bytes Reader asks the underlying io.Reader
// for on each refill when the caller's request exceeds the buffered amount.
const DefaultChunkSize = 1024

// Reader wraps an io.Reader with a lookahead buffer. All peeked bytes
// remain available until Consume advances past them. By default the
// buffer grows on demand; NewBounded instead pre-allocates a fixed-size
// buffer once and never grows it, for the embedded (no-allocation) tier.
type Reader struct {
	r                  io.Reader
	buf                []byte
	cursor             int
	preferredChunkSize int
	maxSize            int // 0 means unbounded growth
	eof                bool
}

// New wraps r with the default chunk size and no capacity bound.
func New(r io.Reader) *Reader {
	return &Reader{r: r, preferredChunkSize: DefaultChunkSize}
}

// NewSize wraps r, requesting chunkSize bytes per refill.
func NewSize(r io.Reader, chunkSize int) *Reader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Reader{r: r, preferredChunkSize: chunkSize}
}

// NewBounded wraps r with a buffer capped at maxSize bytes: the backing
// array is allocated once, here, and every subsequent fill reuses it
// in place instead of growing it. A peek or read that would need more
// than maxSize buffered bytes fails with mavlinkerr.ErrCapacity instead
// of allocating further, which is what the embedded tier requires.
func NewBounded(r io.Reader, maxSize int) *Reader {
	chunkSize := maxSize
	if chunkSize > DefaultChunkSize {
		chunkSize = DefaultChunkSize
	}
	return &Reader{
		r:                  r,
		buf:                make([]byte, 0, maxSize),
		preferredChunkSize: chunkSize,
		maxSize:            maxSize,
	}
}

// Buffered reports how many unconsumed bytes are currently held in memory.
func (p *Reader) Buffered() int {
	return len(p.buf) - p.cursor
}

// compact drops already-consumed bytes from the front of the buffer so it
// does not grow without bound across a long-running connection.
func (p *Reader) compact() {
	if p.cursor == 0 {
		return
	}
	p.buf = append(p.buf[:0], p.buf[p.cursor:]...)
	p.cursor = 0
}

// fill reads from the underlying reader until at least n bytes are
// available beyond the cursor, or the reader returns an error.
func (p *Reader) fill(n int) error {
	if p.maxSize > 0 && n > p.maxSize {
		return fmt.Errorf("ioreader: need %d bytes but buffer is capped at %d: %w", n, p.maxSize, mavlinkerr.ErrCapacity)
	}
	for p.Buffered() < n {
		if p.eof {
			return fmt.Errorf("ioreader: need %d, have %d: %w", n, p.Buffered(), mavlinkerr.ErrUnexpectedEOF)
		}
		p.compact()
		want := p.preferredChunkSize
		if need := n - p.Buffered(); need > want {
			want = need
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
			p.buf = p.buf[:base+want] // reuses the array NewBounded preallocated; never reallocates
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
			return err
		}
		if nRead == 0 {
			// A well-behaved io.Reader returning (0, nil) is a caller bug,
			// but spin-guard against it rather than looping forever.
			return fmt.Errorf("ioreader: reader made no progress: %w", mavlinkerr.ErrUnexpectedEOF)
		}
	}
	return nil
}

// Peek returns the next n unconsumed bytes without advancing the cursor.
// The returned slice aliases the internal buffer and is only valid until
// the next call to Peek, PeekExact, PeekByte, Consume, ReadExact,
// ReadByte, or Discard.
func (p *Reader) Peek(n int) ([]byte, error) {
	if err := p.fill(n); err != nil {
		return nil, err
	}
	return p.buf[p.cursor : p.cursor+n], nil
}

// PeekExact is an alias for Peek kept for symmetry with Consume/ReadExact;
// it always returns exactly n bytes or an error, never a short read.
func (p *Reader) PeekExact(n int) ([]byte, error) {
	return p.Peek(n)
}

// PeekByte returns the single next byte without consuming it.
func (p *Reader) PeekByte() (byte, error) {
	b, err := p.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Consume advances the cursor past n already-peeked bytes. Consuming more
// than Buffered() bytes is a programming error and panics, mirroring a
// slice out-of-range rather than silently clamping.
func (p *Reader) Consume(n int) {
	if n < 0 || n > p.Buffered() {
		panic(fmt.Sprintf("ioreader: consume %d exceeds buffered %d", n, p.Buffered()))
	}
	p.cursor += n
	if p.cursor == len(p.buf) {
		p.buf = p.buf[:0]
		p.cursor = 0
	}
}

// ReadExact reads exactly n bytes, consuming them. The returned slice is a
// fresh copy safe to retain past the next call.
func (p *Reader) ReadExact(n int) ([]byte, error) {
	b, err := p.Peek(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	p.Consume(n)
	return out, nil
}

// ReadByte reads and consumes a single byte.
func (p *Reader) ReadByte() (byte, error) {
	b, err := p.ReadExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Discard consumes and discards exactly n bytes, refilling as needed,
// without copying them out. It fails, consuming nothing, if n bytes
// cannot be buffered.
func (p *Reader) Discard(n int) error {
	if err := p.fill(n); err != nil {
		return err
	}
	p.Consume(n)
	return nil
}

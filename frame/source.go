package frame

import (
	"context"

	"github.com/windward-avionics/mavgo/ioreader"
)

// Source is the peekable-reader capability the parser operates against. It
// is satisfied by both the blocking and cooperative reader variants so one
// state machine serves both scheduling models (see ioreader.Reader and
// ioreader.CtxReader).
type Source interface {
	PeekExact(ctx context.Context, n int) ([]byte, error)
	Consume(n int)
	Discard(ctx context.Context, n int) error
}

// blockingSource adapts an *ioreader.Reader, ignoring ctx since the
// underlying calls never suspend cooperatively; cancellation of a blocked
// transport read is the transport's responsibility in this mode.
type blockingSource struct {
	r *ioreader.Reader
}

// NewBlockingSource wraps r for use by Parser in blocking-thread mode.
func NewBlockingSource(r *ioreader.Reader) Source {
	return blockingSource{r: r}
}

func (b blockingSource) PeekExact(_ context.Context, n int) ([]byte, error) {
	return b.r.PeekExact(n)
}

func (b blockingSource) Consume(n int) { b.r.Consume(n) }

func (b blockingSource) Discard(_ context.Context, n int) error {
	return b.r.Discard(n)
}

// cooperativeSource adapts an *ioreader.CtxReader, threading ctx through to
// each suspension point as design note 9 requires.
type cooperativeSource struct {
	r *ioreader.CtxReader
}

// NewCooperativeSource wraps r for use by Parser in cooperative-scheduling
// mode.
func NewCooperativeSource(r *ioreader.CtxReader) Source {
	return cooperativeSource{r: r}
}

func (c cooperativeSource) PeekExact(ctx context.Context, n int) ([]byte, error) {
	return c.r.PeekExact(ctx, n)
}

func (c cooperativeSource) Consume(n int) { c.r.Consume(n) }

func (c cooperativeSource) Discard(ctx context.Context, n int) error {
	return c.r.Discard(ctx, n)
}

package ioreader

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windward-avionics/mavgo/mavlinkerr"
)

func TestCtxPeekExactSucceedsWhenDataPresent(t *testing.T) {
	r := NewCtx(bytes.NewReader([]byte{1, 2, 3}))
	b, err := r.PeekExact(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
}

// blockingReader never returns data or an error until unblocked, modelling
// a stalled serial link with no SetReadDeadline support.
type blockingReader struct {
	unblock chan struct{}
}

func (b *blockingReader) Read(p []byte) (int, error) {
	<-b.unblock
	return 0, context.Canceled
}

func TestCtxPeekExactRespectsCancellation(t *testing.T) {
	br := &blockingReader{unblock: make(chan struct{})}
	defer close(br.unblock)

	r := NewCtx(br)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.PeekExact(ctx, 1)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

type deadlineAwareReader struct {
	data []byte
	pos  int
}

func (d *deadlineAwareReader) SetReadDeadline(time.Time) error { return nil }

func (d *deadlineAwareReader) Read(p []byte) (int, error) {
	if d.pos >= len(d.data) {
		return 0, errTimeout{}
	}
	n := copy(p, d.data[d.pos:])
	d.pos += n
	return n, nil
}

type errTimeout struct{}

func (errTimeout) Error() string   { return "i/o timeout" }
func (errTimeout) Timeout() bool   { return true }
func (errTimeout) Temporary() bool { return true }

func TestCtxPollsThroughReadTimeouts(t *testing.T) {
	r := NewCtx(&deadlineAwareReader{data: []byte{9, 9}})
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	b, err := r.PeekExact(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, b)
}

func TestCtxBoundedRejectsRequestOverCapacity(t *testing.T) {
	r := NewCtxBounded(bytes.NewReader(bytes.Repeat([]byte{1}, 8)), 4)
	_, err := r.PeekExact(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mavlinkerr.ErrCapacity))
}

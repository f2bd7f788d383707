package transport

import (
	"context"
	"fmt"
	"os"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/registry"
)

// fileConn replays a previously captured frame stream. It is read-only:
// Send is a no-op that reports success, matching the reference crate's
// FileConnection::send.
type fileConn struct {
	*base
	file *os.File
}

func dialFile(path string, messages *registry.Set, cfg config) (Connection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transport: opening replay file %s: %w", path, err)
	}

	src := newSource(f, cfg)
	return &fileConn{base: newBase(src, discardWriter{}, messages, cfg), file: f}, nil
}

func (c *fileConn) Recv(ctx context.Context) (Header, registry.Message, error) {
	return c.recvLoop(ctx)
}

func (c *fileConn) RecvRaw(ctx context.Context) (*frame.RawFrame, error) {
	return c.recvRawLoop(ctx)
}

func (c *fileConn) TryRecv() (Header, registry.Message, error) {
	return c.recvOnce(context.Background())
}

// Send is a no-op: a replay file is not a live peer to write back to.
func (c *fileConn) Send(ctx context.Context, hdr Header, msg registry.MessageData) (int, error) {
	return 0, nil
}

func (c *fileConn) Close() error {
	return c.file.Close()
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

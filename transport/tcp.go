package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/registry"
)

// tryRecvTimeout is how long TryRecv waits for a frame to already be
// sitting in the socket buffer before giving up, on transports that need
// a read deadline to emulate non-blocking receive.
const tryRecvTimeout = 1 * time.Millisecond

type tcpConn struct {
	*base
	conn net.Conn
}

// dialTCP implements tcpin (listen, accept exactly one peer) and tcpout
// (dial out).
func dialTCP(server bool, hostPort string, messages *registry.Set, cfg config) (Connection, error) {
	var conn net.Conn
	if server {
		ln, err := net.Listen("tcp", hostPort)
		if err != nil {
			return nil, fmt.Errorf("transport: tcpin listen %s: %w", hostPort, err)
		}
		defer ln.Close()
		accepted, err := ln.Accept()
		if err != nil {
			return nil, fmt.Errorf("transport: tcpin accept on %s: %w", hostPort, err)
		}
		conn = accepted
	} else {
		dialed, err := net.Dial("tcp", hostPort)
		if err != nil {
			return nil, fmt.Errorf("transport: tcpout dial %s: %w", hostPort, err)
		}
		conn = dialed
	}

	src := newSource(conn, cfg)
	return &tcpConn{base: newBase(src, conn, messages, cfg), conn: conn}, nil
}

func (c *tcpConn) Recv(ctx context.Context) (Header, registry.Message, error) {
	return c.recvLoop(ctx)
}

func (c *tcpConn) RecvRaw(ctx context.Context) (*frame.RawFrame, error) {
	return c.recvRawLoop(ctx)
}

func (c *tcpConn) TryRecv() (Header, registry.Message, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(tryRecvTimeout)); err != nil {
		return Header{}, registry.Message{}, fmt.Errorf("transport: setting read deadline: %w", err)
	}
	defer c.conn.SetReadDeadline(time.Time{})
	return c.recvOnce(context.Background())
}

func (c *tcpConn) Send(ctx context.Context, hdr Header, msg registry.MessageData) (int, error) {
	return c.sendMsg(hdr, msg)
}

func (c *tcpConn) Close() error {
	return c.conn.Close()
}

package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/registry"
)

// udpDatagramLimit is the largest single UDP datagram this package will
// read; MAVLink's largest signed v2 frame fits comfortably under the
// common-path MTU this bounds against.
const udpDatagramLimit = 1500

type udpConn struct {
	*base
	socket *net.UDPConn
	server bool // udpin: learn the peer address from the first datagram received

	destMu sync.RWMutex
	dest   *net.UDPAddr

	// recvBuf is allocated once and reused for every ReadFromUDP call,
	// rather than allocating a fresh buffer per datagram. WithEmbeddedBuffers
	// widens it (never shrinks below udpDatagramLimit, since a shorter
	// buffer would silently truncate a legitimate datagram).
	recvBuf []byte
}

// dialUDP implements udpin (bind and learn the peer from the first
// datagram), udpout (connect to a fixed peer), and udpbcast/udpcast
// (connect with the socket's broadcast flag set).
func dialUDP(mode string, hostPort string, messages *registry.Set, cfg config) (Connection, error) {
	var socket *net.UDPConn
	var server bool
	var dest *net.UDPAddr

	switch mode {
	case "udpin":
		addr, err := net.ResolveUDPAddr("udp", hostPort)
		if err != nil {
			return nil, fmt.Errorf("transport: resolving %s: %w", hostPort, err)
		}
		socket, err = net.ListenUDP("udp", addr)
		if err != nil {
			return nil, fmt.Errorf("transport: udpin bind %s: %w", hostPort, err)
		}
		server = true
	case "udpout", "udpbcast", "udpcast":
		addr, err := net.ResolveUDPAddr("udp", hostPort)
		if err != nil {
			return nil, fmt.Errorf("transport: resolving %s: %w", hostPort, err)
		}
		socket, err = net.ListenUDP("udp", &net.UDPAddr{})
		if err != nil {
			return nil, fmt.Errorf("transport: udpout bind ephemeral port: %w", err)
		}
		if mode == "udpbcast" || mode == "udpcast" {
			// Broadcast sends require SO_BROADCAST on the socket on
			// platforms that enforce it; where that is not available,
			// dialing the broadcast address still works unmodified.
			if err := enableBroadcast(socket); err != nil {
				socket.Close()
				return nil, fmt.Errorf("transport: enabling udp broadcast: %w", err)
			}
		}
		dest = addr
	default:
		return nil, fmt.Errorf("transport: unknown udp mode %q", mode)
	}

	bufLen := udpDatagramLimit
	if cfg.bufferSize > bufLen {
		bufLen = cfg.bufferSize
	}
	c := &udpConn{
		base:    newBasePacketOriented(messages, nil, cfg),
		socket:  socket,
		server:  server,
		dest:    dest,
		recvBuf: make([]byte, bufLen),
	}
	c.write = c.sendTo
	return c, nil
}

func (c *udpConn) sendTo(p []byte) (int, error) {
	c.destMu.RLock()
	dest := c.dest
	c.destMu.RUnlock()
	if dest == nil {
		// No peer known yet (udpin that has not received anything):
		// nothing to send to, matching the reference crate's behavior
		// of silently dropping writes until a peer address is learned.
		return 0, nil
	}
	return c.socket.WriteToUDP(p, dest)
}

func (c *udpConn) readDatagram(deadline time.Time) ([]byte, error) {
	if err := c.socket.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("transport: setting udp read deadline: %w", err)
	}
	n, addr, err := c.socket.ReadFromUDP(c.recvBuf)
	if err != nil {
		return nil, err
	}
	if c.server {
		c.destMu.Lock()
		c.dest = addr
		c.destMu.Unlock()
	}
	return c.recvBuf[:n], nil
}

func (c *udpConn) Recv(ctx context.Context) (Header, registry.Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Header{}, registry.Message{}, err
		}
		datagram, err := c.readDatagram(time.Time{})
		if err != nil {
			return Header{}, registry.Message{}, fmt.Errorf("transport: udp recv: %w", err)
		}
		raw, err := c.parseDatagram(ctx, datagram)
		if err != nil {
			c.log.Debug("discarding unreadable udp datagram", "error", err, "bytes", len(datagram))
			continue
		}
		if !c.acceptsVersion(raw.Header) {
			continue
		}
		msg, err := c.messages.Decode(raw.Header.MessageID, raw.Payload)
		if err != nil {
			c.log.Debug("discarding undecodable udp datagram", "error", err)
			continue
		}
		return raw.Header, msg, nil
	}
}

func (c *udpConn) RecvRaw(ctx context.Context) (*frame.RawFrame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		datagram, err := c.readDatagram(time.Time{})
		if err != nil {
			return nil, fmt.Errorf("transport: udp recv: %w", err)
		}
		raw, err := c.parseDatagram(ctx, datagram)
		if err != nil {
			c.log.Debug("discarding unreadable udp datagram", "error", err, "bytes", len(datagram))
			continue
		}
		if !c.acceptsVersion(raw.Header) {
			continue
		}
		return raw, nil
	}
}

func (c *udpConn) TryRecv() (Header, registry.Message, error) {
	datagram, err := c.readDatagram(time.Now().Add(tryRecvTimeout))
	if err != nil {
		return Header{}, registry.Message{}, fmt.Errorf("transport: udp try_recv: %w", err)
	}
	raw, err := c.parseDatagram(context.Background(), datagram)
	if err != nil {
		return Header{}, registry.Message{}, err
	}
	msg, err := c.messages.Decode(raw.Header.MessageID, raw.Payload)
	if err != nil {
		return Header{}, registry.Message{}, err
	}
	return raw.Header, msg, nil
}

func (c *udpConn) Send(ctx context.Context, hdr Header, msg registry.MessageData) (int, error) {
	return c.sendMsg(hdr, msg)
}

func (c *udpConn) Close() error {
	return c.socket.Close()
}

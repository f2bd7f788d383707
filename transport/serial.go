package transport

import (
	"context"
	"fmt"

	"go.bug.st/serial"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/registry"
)

type serialConn struct {
	*base
	port serial.Port
}

// dialSerial opens portName at baud, 8-N-1 with no flow control.
func dialSerial(portName string, baud int, messages *registry.Set, cfg config) (Connection, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("transport: opening serial port %s: %w", portName, err)
	}

	src := newSource(port, cfg)
	return &serialConn{base: newBase(src, port, messages, cfg), port: port}, nil
}

func (c *serialConn) Recv(ctx context.Context) (Header, registry.Message, error) {
	return c.recvLoop(ctx)
}

func (c *serialConn) RecvRaw(ctx context.Context) (*frame.RawFrame, error) {
	return c.recvRawLoop(ctx)
}

func (c *serialConn) TryRecv() (Header, registry.Message, error) {
	if err := c.port.SetReadTimeout(tryRecvTimeout); err != nil {
		return Header{}, registry.Message{}, fmt.Errorf("transport: setting serial read timeout: %w", err)
	}
	defer c.port.SetReadTimeout(serial.NoTimeout)
	return c.recvOnce(context.Background())
}

func (c *serialConn) Send(ctx context.Context, hdr Header, msg registry.MessageData) (int, error) {
	return c.sendMsg(hdr, msg)
}

func (c *serialConn) Close() error {
	return c.port.Close()
}

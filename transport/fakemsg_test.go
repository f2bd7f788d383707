package transport

import (
	"fmt"

	"github.com/windward-avionics/mavgo/registry"
)

// fakeHeartbeat is a minimal registry.MessageData standing in for a
// generated message, used to exercise send/recv without depending on a
// real dialect package.
type fakeHeartbeat struct {
	CustomMode uint32
	Type       uint8
}

const (
	fakeHeartbeatID       = 0
	fakeHeartbeatCRCExtra = 50
	fakeHeartbeatWireLen  = 9
)

func (m *fakeHeartbeat) ID() uint32   { return fakeHeartbeatID }
func (m *fakeHeartbeat) Name() string { return "HEARTBEAT" }

func (m *fakeHeartbeat) Serialise() ([]byte, error) {
	buf := make([]byte, fakeHeartbeatWireLen)
	buf[0] = byte(m.CustomMode)
	buf[1] = byte(m.CustomMode >> 8)
	buf[2] = byte(m.CustomMode >> 16)
	buf[3] = byte(m.CustomMode >> 24)
	buf[8] = m.Type
	return buf, nil
}

func (m *fakeHeartbeat) Parse(payload []byte) error {
	if len(payload) < fakeHeartbeatWireLen {
		return fmt.Errorf("fakeHeartbeat: short payload: %d bytes", len(payload))
	}
	m.CustomMode = uint32(payload[0]) | uint32(payload[1])<<8 | uint32(payload[2])<<16 | uint32(payload[3])<<24
	m.Type = payload[8]
	return nil
}

func newFakeRegistry() *registry.Set {
	s := registry.NewSet()
	s.Register(fakeHeartbeatID, fakeHeartbeatCRCExtra, fakeHeartbeatWireLen, fakeHeartbeatWireLen,
		func() registry.MessageData { return &fakeHeartbeat{} })
	return s
}

package transport

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/ioreader"
	"github.com/windward-avionics/mavgo/mavlinkerr"
)

func encodeFrame(t *testing.T, hdr Header, msg *fakeHeartbeat, version uint8) []byte {
	t.Helper()
	payload, err := msg.Serialise()
	require.NoError(t, err)
	hdr.MessageID = fakeHeartbeatID
	var buf bytes.Buffer
	require.NoError(t, frame.Write(&buf, hdr, payload, fakeHeartbeatCRCExtra, frame.WriteOptions{Version: version}))
	return buf.Bytes()
}

func newStreamBase(t *testing.T, stream []byte) (*base, *bytes.Buffer) {
	t.Helper()
	src := frame.NewBlockingSource(ioreader.New(bytes.NewReader(stream)))
	var out bytes.Buffer
	b := newBase(src, &out, newFakeRegistry(), config{})
	return b, &out
}

func TestRecvLoopSkipsNoiseBeforeValidFrame(t *testing.T) {
	good := encodeFrame(t, Header{SystemID: 1, ComponentID: 1}, &fakeHeartbeat{Type: 4}, frame.MagicV2)
	junk := []byte{0x00, 0x01, 0x02} // no magic byte at all: silently skipped by seekMagic
	stream := append(append([]byte{}, junk...), good...)

	b, _ := newStreamBase(t, stream)
	hdr, msg, err := b.recvLoop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(1), hdr.SystemID)
	got := msg.Data.(*fakeHeartbeat)
	assert.Equal(t, uint8(4), got.Type)
}

func TestRecvLoopSkipsWrongVersionWhenNotAllowed(t *testing.T) {
	v1 := encodeFrame(t, Header{SystemID: 2}, &fakeHeartbeat{Type: 7}, frame.MagicV1)
	v2 := encodeFrame(t, Header{SystemID: 3}, &fakeHeartbeat{Type: 9}, frame.MagicV2)
	stream := append(append([]byte{}, v1...), v2...)

	b, _ := newStreamBase(t, stream)
	b.SetProtocolVersion(V2) // default, but explicit for clarity
	hdr, _, err := b.recvLoop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(3), hdr.SystemID)
}

func TestRecvLoopAcceptsAnyVersionWhenConfigured(t *testing.T) {
	v1 := encodeFrame(t, Header{SystemID: 5}, &fakeHeartbeat{Type: 1}, frame.MagicV1)

	b, _ := newStreamBase(t, v1)
	b.SetAllowRecvAnyVersion(true)
	hdr, _, err := b.recvLoop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(5), hdr.SystemID)
}

func TestSendMsgOverwritesCallerSuppliedSequence(t *testing.T) {
	b, out := newStreamBase(t, nil)

	_, err := b.sendMsg(Header{Sequence: 200}, &fakeHeartbeat{Type: 1})
	require.NoError(t, err)
	_, err = b.sendMsg(Header{Sequence: 200}, &fakeHeartbeat{Type: 2})
	require.NoError(t, err)

	src := frame.NewBlockingSource(ioreader.New(bytes.NewReader(out.Bytes())))
	parser := frame.NewParser(src, newFakeRegistry(), nil)
	first, err := parser.ReadFrame(context.Background())
	require.NoError(t, err)
	second, err := parser.ReadFrame(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint8(0), first.Header.Sequence)
	assert.Equal(t, uint8(1), second.Header.Sequence)
}

func TestSendMsgRejectsUnknownMessage(t *testing.T) {
	b, _ := newStreamBase(t, nil)
	_, err := b.sendMsg(Header{}, &unregisteredMsg{})
	require.Error(t, err)
}

func TestNewSourceWithBufferSizeRejectsFrameLargerThanBuffer(t *testing.T) {
	good := encodeFrame(t, Header{SystemID: 1}, &fakeHeartbeat{Type: 4}, frame.MagicV2)

	src := newSource(bytes.NewReader(good), config{bufferSize: 4})
	parser := frame.NewParser(src, newFakeRegistry(), nil)
	_, err := parser.ReadFrame(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, mavlinkerr.ErrCapacity)
}

func TestNewSourceWithBufferSizeAcceptsFrameWithinBuffer(t *testing.T) {
	good := encodeFrame(t, Header{SystemID: 1}, &fakeHeartbeat{Type: 4}, frame.MagicV2)

	src := newSource(bytes.NewReader(good), config{bufferSize: len(good)})
	parser := frame.NewParser(src, newFakeRegistry(), nil)
	raw, err := parser.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(1), raw.Header.SystemID)
}

type unregisteredMsg struct{}

func (unregisteredMsg) ID() uint32                 { return 999 }
func (unregisteredMsg) Name() string               { return "UNREGISTERED" }
func (unregisteredMsg) Parse(payload []byte) error { return nil }
func (unregisteredMsg) Serialise() ([]byte, error) { return nil, nil }

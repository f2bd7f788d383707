package transport

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windward-avionics/mavgo/frame"
)

func TestTCPRoundTrip(t *testing.T) {
	messages := newFakeRegistry()

	serverDone := make(chan Connection, 1)
	serverErr := make(chan error, 1)
	go func() {
		c, err := dialTCP(true, "127.0.0.1:18550", messages, config{})
		if err != nil {
			serverErr <- err
			return
		}
		serverDone <- c
	}()

	var client Connection
	var dialErr error
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		client, dialErr = dialTCP(false, "127.0.0.1:18550", messages, config{})
		if dialErr == nil {
			break
		}
		time.Sleep(5 * time.Millisecond) // listener not bound yet: retry until it is
	}
	require.NoError(t, dialErr)
	defer client.Close()

	var server Connection
	select {
	case server = <-serverDone:
	case err := <-serverErr:
		t.Fatalf("server accept failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server accept")
	}
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.Send(ctx, Header{SystemID: 9, ComponentID: 1}, &fakeHeartbeat{Type: 3, CustomMode: 42})
	require.NoError(t, err)

	hdr, msg, err := server.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), hdr.SystemID)
	got := msg.Data.(*fakeHeartbeat)
	assert.Equal(t, uint8(3), got.Type)
	assert.Equal(t, uint32(42), got.CustomMode)
}

func TestUDPRoundTripLearnsPeerFromFirstDatagram(t *testing.T) {
	messages := newFakeRegistry()

	server, err := dialUDP("udpin", "127.0.0.1:18551", messages, config{})
	require.NoError(t, err)
	defer server.Close()

	client, err := dialUDP("udpout", "127.0.0.1:18551", messages, config{})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = client.Send(ctx, Header{SystemID: 11}, &fakeHeartbeat{Type: 6})
	require.NoError(t, err)

	hdr, msg, err := server.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(11), hdr.SystemID)
	assert.Equal(t, uint8(6), msg.Data.(*fakeHeartbeat).Type)

	// The server has now learned the client's address and can reply.
	_, err = server.Send(ctx, Header{SystemID: 12}, &fakeHeartbeat{Type: 8})
	require.NoError(t, err)

	hdr, msg, err = client.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(12), hdr.SystemID)
	assert.Equal(t, uint8(8), msg.Data.(*fakeHeartbeat).Type)
}

func TestTCPRoundTripWithEmbeddedBuffersSucceedsWithinCapacity(t *testing.T) {
	messages := newFakeRegistry()

	serverDone := make(chan Connection, 1)
	go func() {
		c, err := Dial("tcpin:127.0.0.1:18552", messages, WithEmbeddedBuffers(frame.MaxFrameLenSigned))
		require.NoError(t, err)
		serverDone <- c
	}()

	var client Connection
	var dialErr error
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		client, dialErr = Dial("tcpout:127.0.0.1:18552", messages, WithEmbeddedBuffers(frame.MaxFrameLenSigned))
		if dialErr == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, dialErr)
	defer client.Close()

	server := <-serverDone
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.Send(ctx, Header{SystemID: 21}, &fakeHeartbeat{Type: 5})
	require.NoError(t, err)

	hdr, msg, err := server.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(21), hdr.SystemID)
	assert.Equal(t, uint8(5), msg.Data.(*fakeHeartbeat).Type)
}

func TestFileConnSendIsNoOp(t *testing.T) {
	path := t.TempDir() + "/replay.mav"
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	conn, err := dialFile(path, newFakeRegistry(), config{})
	require.NoError(t, err)
	defer conn.Close()

	n, err := conn.Send(context.Background(), Header{}, &fakeHeartbeat{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFileConnReplaysRecordedFrames(t *testing.T) {
	messages := newFakeRegistry()
	recorded := encodeFrame(t, Header{SystemID: 44}, &fakeHeartbeat{Type: 2}, frame.MagicV2)

	path := t.TempDir() + "/replay.mav"
	require.NoError(t, os.WriteFile(path, recorded, 0o644))

	conn, err := dialFile(path, messages, config{})
	require.NoError(t, err)
	defer conn.Close()

	hdr, msg, err := conn.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(44), hdr.SystemID)
	assert.Equal(t, uint8(2), msg.Data.(*fakeHeartbeat).Type)
}

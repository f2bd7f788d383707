package signing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/mavlinkerr"
)

func testKey() [32]byte {
	var k [32]byte
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func heartbeatHeader() frame.Header {
	return frame.Header{
		Version:       frame.MagicV2,
		IncompatFlags: frame.IncompatFlagSigned,
		Sequence:      7,
		SystemID:      1,
		ComponentID:   1,
		MessageID:     0,
	}
}

func TestSignThenVerifyRoundTrips(t *testing.T) {
	clock := uint64(1_000_000)
	signerClock := func() uint64 { return clock }
	signer := NewState(Config{Key: testKey(), LinkID: 3}, signerClock)
	verifier := NewState(Config{Key: testKey()}, signerClock)

	hdr := heartbeatHeader()
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	sig, err := signer.Sign(hdr, payload, 0xBEEF)
	require.NoError(t, err)
	assert.EqualValues(t, 3, sig.LinkID)

	require.NoError(t, verifier.Verify(hdr, payload, 0xBEEF, sig))
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	clock := uint64(1_000_000)
	signer := NewState(Config{Key: testKey()}, func() uint64 { return clock })
	verifier := NewState(Config{Key: testKey()}, func() uint64 { return clock })

	hdr := heartbeatHeader()
	sig, err := signer.Sign(hdr, []byte{1, 2, 3}, 1)
	require.NoError(t, err)

	err = verifier.Verify(hdr, []byte{9, 9, 9}, 1, sig)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	clock := uint64(1_000_000)
	signer := NewState(Config{Key: testKey()}, func() uint64 { return clock })
	otherKey := testKey()
	otherKey[0] ^= 0xFF
	verifier := NewState(Config{Key: otherKey}, func() uint64 { return clock })

	hdr := heartbeatHeader()
	sig, err := signer.Sign(hdr, []byte{1, 2, 3}, 1)
	require.NoError(t, err)

	err = verifier.Verify(hdr, []byte{1, 2, 3}, 1, sig)
	assert.Error(t, err)
}

func TestVerifyRejectsNonAdvancingTimestamp(t *testing.T) {
	clock := uint64(1_000_000)
	signer := NewState(Config{Key: testKey()}, func() uint64 { return clock })
	verifier := NewState(Config{Key: testKey()}, func() uint64 { return clock })

	hdr := heartbeatHeader()
	sig, err := signer.Sign(hdr, []byte{1}, 1)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(hdr, []byte{1}, 1, sig))

	// A replay of the exact same timestamp on the same stream must be
	// rejected even though the signature itself is valid.
	err = verifier.Verify(hdr, []byte{1}, 1, sig)
	assert.ErrorIs(t, err, mavlinkerr.ErrSigningRejected)
}

func TestVerifyAcceptsAdvancingTimestampFromSameSigner(t *testing.T) {
	clock := uint64(1_000_000)
	signer := NewState(Config{Key: testKey()}, func() uint64 { return clock })
	verifier := NewState(Config{Key: testKey()}, func() uint64 { return clock })

	hdr := heartbeatHeader()
	sig1, err := signer.Sign(hdr, []byte{1}, 1)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(hdr, []byte{1}, 1, sig1))

	sig2, err := signer.Sign(hdr, []byte{2}, 1)
	require.NoError(t, err)
	assert.Greater(t, sig2.Timestamp, sig1.Timestamp)
	require.NoError(t, verifier.Verify(hdr, []byte{2}, 1, sig2))
}

func TestVerifyRejectsStaleNewStream(t *testing.T) {
	verifier := NewState(Config{Key: testKey()}, func() uint64 { return 10_000_000 })

	hdr := heartbeatHeader()
	sig := frame.Signature{LinkID: 0, Timestamp: 1} // far older than the 60s grace window

	err := verifier.Verify(hdr, []byte{1}, 1, sig)
	assert.Error(t, err)
}

func TestVerifyRejectsUnsignedFrameWhenNotAllowed(t *testing.T) {
	verifier := NewState(Config{Key: testKey(), AllowUnsigned: false}, func() uint64 { return 0 })
	hdr := heartbeatHeader()
	hdr.IncompatFlags = 0 // not signed

	err := verifier.Verify(hdr, []byte{1}, 1, frame.Signature{})
	assert.Error(t, err)
}

func TestVerifyAllowsUnsignedFrameWhenConfigured(t *testing.T) {
	verifier := NewState(Config{Key: testKey(), AllowUnsigned: true}, func() uint64 { return 0 })
	hdr := heartbeatHeader()
	hdr.IncompatFlags = 0

	err := verifier.Verify(hdr, []byte{1}, 1, frame.Signature{})
	assert.NoError(t, err)
}

func TestDifferentStreamsTrackIndependentTimestamps(t *testing.T) {
	clock := uint64(1_000_000)
	signer := NewState(Config{Key: testKey(), LinkID: 1}, func() uint64 { return clock })
	verifier := NewState(Config{Key: testKey()}, func() uint64 { return clock })

	hdrA := heartbeatHeader()
	hdrA.SystemID = 1
	hdrB := heartbeatHeader()
	hdrB.SystemID = 2

	sigA, err := signer.Sign(hdrA, []byte{1}, 1)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(hdrA, []byte{1}, 1, sigA))

	// hdrB is a distinct stream (different system id), so it is treated
	// as unseen even though its timestamp does not exceed hdrA's.
	sigB := frame.Signature{LinkID: sigA.LinkID, Timestamp: sigA.Timestamp}
	digest, err := signer.digest(hdrB, []byte{1}, 1, sigB.LinkID, sigB.Timestamp)
	require.NoError(t, err)
	copy(sigB.Sig[:], digest)

	require.NoError(t, verifier.Verify(hdrB, []byte{1}, 1, sigB))
}

// Package signing implements MAVLink v2 message signing: a per-stream
// replay-timestamp ledger plus the truncated-SHA-256 signature mixed into
// a frame's 13-byte trailer, as described at
// https://mavlink.io/en/guide/message_signing.html and implemented here
// from the reference encoder/verifier rather than that prose.
package signing

import (
	"crypto/sha256"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/mavlinkerr"
	"github.com/windward-avionics/mavgo/wire"
)

// epochOffsetUnits10us is the number of signing-timestamp units (10us
// each) between the Unix epoch and 2015-01-01T00:00:00Z, the signing
// epoch. 1420070400 seconds * 1e6 microseconds, divided into 10us units.
const epochOffsetUnits10us = 1420070400 * 100000

// staleStreamGraceUnits10us is how far behind the connection's own high-
// water mark an unseen stream's first timestamp may be before it is
// rejected outright: 60 seconds, expressed in 10us units.
const staleStreamGraceUnits10us = 60 * 100000

// Config is the immutable signing setup for one connection: the shared
// secret and whether unsigned v2 frames are tolerated on receive.
type Config struct {
	// Key is the connection's 32-byte signing secret.
	Key [32]byte
	// LinkID is stamped into every frame this side signs. MAVLink permits
	// a connection to use more than one signing link; this package only
	// ever signs as a single fixed link, matching the common single-link
	// case.
	LinkID uint8
	// AllowUnsigned lets an unsigned v2 frame through Verify instead of
	// rejecting it. Only meaningful to a verifier driven from a frame
	// whose IncompatFlags does not carry the signed bit.
	AllowUnsigned bool
}

type streamKey struct {
	linkID      uint8
	systemID    uint8
	componentID uint8
}

// State is the mutable per-connection signing ledger: a monotonic local
// timestamp high-water mark, and the last-accepted timestamp per
// (link_id, system_id, component_id) stream. It implements
// frame.SignatureVerifier and frame.SignatureSigner, and is safe for
// concurrent use by a connection's single reader and single writer goroutines.
type State struct {
	cfg Config

	mu            chan struct{} // binary semaphore guarding highWaterMark
	highWaterMark uint64
	streams       *xsync.MapOf[streamKey, uint64]

	now func() uint64 // overridable for tests; defaults to currentSigningTimestamp
}

// NewState builds a signing ledger from cfg. now, if nil, uses wall-clock
// time via currentSigningTimestamp.
func NewState(cfg Config, now func() uint64) *State {
	if now == nil {
		now = currentSigningTimestamp
	}
	s := &State{
		cfg:     cfg,
		mu:      make(chan struct{}, 1),
		streams: xsync.NewMapOf[streamKey, uint64](),
		now:     now,
	}
	s.mu <- struct{}{}
	return s
}

func (s *State) lock()   { <-s.mu }
func (s *State) unlock() { s.mu <- struct{}{} }

// Sign implements frame.SignatureSigner: it stamps the connection's
// current (monotonically advancing) timestamp and link id onto the
// frame, then signs over the supplied header/payload/checksum.
func (s *State) Sign(hdr frame.Header, payload []byte, checksum uint16) (frame.Signature, error) {
	s.lock()
	if wall := s.now(); wall > s.highWaterMark {
		s.highWaterMark = wall
	}
	ts := s.highWaterMark
	s.highWaterMark++
	s.unlock()

	sig := frame.Signature{LinkID: s.cfg.LinkID, Timestamp: ts}
	digest, err := s.digest(hdr, payload, checksum, sig.LinkID, ts)
	if err != nil {
		return frame.Signature{}, err
	}
	copy(sig.Sig[:], digest)
	return sig, nil
}

// Verify implements frame.SignatureVerifier: it rejects replayed or
// stale timestamps per stream, then checks the truncated-SHA-256
// signature itself. A frame whose IncompatFlags does not carry the
// signed bit is accepted only when AllowUnsigned is set.
func (s *State) Verify(hdr frame.Header, payload []byte, checksum uint16, sig frame.Signature) error {
	if !hdr.Signed() {
		if s.cfg.AllowUnsigned {
			return nil
		}
		return fmt.Errorf("%w: unsigned frame on a signing-required link", mavlinkerr.ErrSigningRejected)
	}

	key := streamKey{linkID: sig.LinkID, systemID: hdr.SystemID, componentID: hdr.ComponentID}

	s.lock()
	if wall := s.now(); wall > s.highWaterMark {
		s.highWaterMark = wall
	}
	highWaterMark := s.highWaterMark
	s.unlock()

	if last, ok := s.streams.Load(key); ok {
		if sig.Timestamp <= last {
			return fmt.Errorf("%w: timestamp %d does not advance past %d", mavlinkerr.ErrSigningRejected, sig.Timestamp, last)
		}
	} else if sig.Timestamp+staleStreamGraceUnits10us < highWaterMark {
		return fmt.Errorf("%w: first timestamp %d from a new stream is more than 60s older than current", mavlinkerr.ErrSigningRejected, sig.Timestamp)
	}

	digest, err := s.digest(hdr, payload, checksum, sig.LinkID, sig.Timestamp)
	if err != nil {
		return err
	}
	if !hmacEqual(digest, sig.Sig[:]) {
		return fmt.Errorf("%w: signature mismatch", mavlinkerr.ErrSigningRejected)
	}

	s.streams.Store(key, sig.Timestamp)
	s.lock()
	if sig.Timestamp > s.highWaterMark {
		s.highWaterMark = sig.Timestamp
	}
	s.unlock()
	return nil
}

// digest computes the 6-byte truncated-SHA-256 signature: the secret
// key, the v2 magic byte, the 9-byte post-magic header, the payload, the
// little-endian checksum, the link id, and the little-endian 48-bit
// timestamp, in that order.
func (s *State) digest(hdr frame.Header, payload []byte, checksum uint16, linkID uint8, timestamp uint64) ([]byte, error) {
	h := sha256.New()
	h.Write(s.cfg.Key[:])
	h.Write([]byte{frame.MagicV2})

	headerBytes := make([]byte, frame.HeaderLenV2-1)
	headerBytes[0] = byte(len(payload))
	headerBytes[1] = hdr.IncompatFlags
	headerBytes[2] = hdr.CompatFlags
	headerBytes[3] = hdr.Sequence
	headerBytes[4] = hdr.SystemID
	headerBytes[5] = hdr.ComponentID
	if err := wire.WriteU24(headerBytes[6:9], hdr.MessageID); err != nil {
		return nil, fmt.Errorf("signing: message id %d: %w", hdr.MessageID, err)
	}
	h.Write(headerBytes)

	h.Write(payload)

	var checksumBytes [2]byte
	_ = wire.WriteU16(checksumBytes[:], checksum)
	h.Write(checksumBytes[:])

	h.Write([]byte{linkID})

	var tsBytes [6]byte
	ts := timestamp
	for i := 0; i < 6; i++ {
		tsBytes[i] = byte(ts)
		ts >>= 8
	}
	h.Write(tsBytes[:])

	return h.Sum(nil)[:6], nil
}

// hmacEqual is a constant-time byte comparison; the signature is not an
// HMAC but benefits from the same timing discipline a forger could
// otherwise exploit one byte at a time.
func hmacEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}

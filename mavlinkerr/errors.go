// Package mavlinkerr defines the sentinel errors shared across the mavgo
// codec, registry, signing, and transport packages.
package mavlinkerr

import "errors"

// Sentinel errors. Call sites wrap these with fmt.Errorf("...: %w", err) so
// errors.Is keeps working through the codec/transport boundary.
var (
	// ErrBufferUnderrun is returned by wire reads that run past the end of
	// the supplied slice.
	ErrBufferUnderrun = errors.New("mavlink: buffer underrun")

	// ErrUnexpectedEOF is returned when a peek/read cannot be satisfied
	// because the underlying stream ended.
	ErrUnexpectedEOF = errors.New("mavlink: unexpected eof")

	// ErrCRC is returned when a frame's checksum does not match its
	// computed value.
	ErrCRC = errors.New("mavlink: crc mismatch")

	// ErrUnknownMessage is returned when a frame's message id has no
	// registered decoder in the active dialect set.
	ErrUnknownMessage = errors.New("mavlink: unknown message id")

	// ErrSigningRejected is returned when a v2 frame fails signature or
	// replay-timestamp verification.
	ErrSigningRejected = errors.New("mavlink: signing rejected")

	// ErrCapacity is returned by the embedded (no-allocation) tier when an
	// operation would need to grow a fixed-size buffer.
	ErrCapacity = errors.New("mavlink: capacity exceeded")

	// ErrSerialiseRange is returned when a value cannot be represented in
	// the wire width requested (e.g. a 24-bit integer out of range).
	ErrSerialiseRange = errors.New("mavlink: value out of serialisable range")

	// ErrConfig is returned at construction time when two requested
	// features expose conflicting or duplicate behavior.
	ErrConfig = errors.New("mavlink: incompatible configuration")

	// ErrBadAddress is returned when a connection address string does not
	// match the documented grammar.
	ErrBadAddress = errors.New("mavlink: invalid connection address")
)

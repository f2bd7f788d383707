// Package frame implements the MAVLink frame parser and writer: the
// resynchronising state machine that turns an arbitrary byte stream into
// validated raw frames, and the writer that serialises a raw frame back to
// bytes with its checksum and optional signature.
package frame

// Magic bytes identifying the two wire versions.
const (
	MagicV1 = 0xFE
	MagicV2 = 0xFD
)

// Header lengths, in bytes, from (and including) the magic byte up to but
// excluding the payload.
const (
	HeaderLenV1 = 6
	HeaderLenV2 = 10
)

// SignatureLen is the size of the v2 signing trailer.
const SignatureLen = 13

// MaxPayloadLen is the largest payload a single frame can carry.
const MaxPayloadLen = 255

// MaxFrameLenUnsigned and MaxFrameLenSigned bound the largest frame this
// package will ever parse or emit: header + payload + crc (+ signature).
// The peekable reader must buffer at least MaxFrameLenSigned bytes.
const (
	MaxFrameLenUnsigned = HeaderLenV2 + MaxPayloadLen + 2
	MaxFrameLenSigned   = MaxFrameLenUnsigned + SignatureLen
)

// IncompatFlagSigned is the only incompat_flags bit this package accepts;
// any other bit set rejects the frame outright.
const IncompatFlagSigned = 0x01

// Header carries the fields common to a decoded frame, independent of wire
// version.
type Header struct {
	Version        uint8 // MagicV1 or MagicV2
	IncompatFlags  uint8 // zero for v1
	CompatFlags    uint8 // zero for v1
	Sequence       uint8
	SystemID       uint8
	ComponentID    uint8
	MessageID      uint32 // 0..255 for v1, 0..2^24-1 for v2
}

// IsV2 reports whether h describes a v2 frame.
func (h Header) IsV2() bool { return h.Version == MagicV2 }

// Signed reports whether the v2 signing trailer bit is set.
func (h Header) Signed() bool { return h.IsV2() && h.IncompatFlags&IncompatFlagSigned != 0 }

// Signature holds a decoded (or to-be-emitted) v2 signing trailer.
type Signature struct {
	LinkID    uint8
	Timestamp uint64 // 48-bit value, units of 10us since 2015-01-01 UTC
	Sig       [6]byte
}

// RawFrame is a fully parsed, CRC-validated frame: header, raw payload
// bytes (undecoded), checksum, and an optional signature. It is the unit
// the registry decodes into a typed message and the unit the writer
// serialises from.
type RawFrame struct {
	Header    Header
	Payload   []byte
	Checksum  uint16
	Signature *Signature // nil unless Header.Signed()
}

// HeaderLen returns the wire length of the frame's header, including the
// magic byte.
func (h Header) HeaderLen() int {
	if h.IsV2() {
		return HeaderLenV2
	}
	return HeaderLenV1
}

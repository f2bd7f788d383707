// Package registry defines the interfaces a generated dialect package
// implements (Message/MessageData) and the dispatch table (Set) that maps
// a wire message id to a decoder, used by both the frame parser (for
// crc_extra lookup) and a connection's receive path (for typed decode).
package registry

import (
	"fmt"

	"github.com/windward-avionics/mavgo/mavlinkerr"
)

// MessageData is implemented by every generated message type. Parse and
// Serialise operate on the raw payload bytes only; they know nothing about
// framing, CRC, or signing.
type MessageData interface {
	// ID is the message's numeric id.
	ID() uint32
	// Name is the message's XML-declared name, for logging.
	Name() string
	// Parse decodes payload (already zero-padded to ExtendedLen by
	// Set.Decode for v1/truncated-v2 frames) into the receiver.
	Parse(payload []byte) error
	// Serialise encodes the receiver into a buffer of ExtendedLen bytes,
	// which equals WireLen for a message without extension fields.
	Serialise() ([]byte, error)
}

// Message pairs a decoded MessageData with the metadata the generator
// computed for its type: crc_extra and the two canonical lengths.
type Message struct {
	Data        MessageData
	CRCExtra    uint8
	WireLen     int // canonical length, excludes extension fields
	ExtendedLen int // WireLen + extension fields, v2 only
}

// Factory constructs a zero-valued MessageData for one message id, ready
// to have Parse called on it.
type Factory func() MessageData

// entry bundles a factory with the metadata the generator derived for it.
type entry struct {
	factory     Factory
	crcExtra    uint8
	wireLen     int
	extendedLen int
}

// Set is a dispatch table from message id to decoder, built by registering
// every message a dialect package declares. A Set is read-only after
// construction and safe for concurrent use by multiple connections.
type Set struct {
	byID map[uint32]entry
}

// NewSet returns an empty dispatch table.
func NewSet() *Set {
	return &Set{byID: make(map[uint32]entry)}
}

// Register adds one message id's factory and generator-computed metadata.
// Calling Register twice for the same id (e.g. two dialects both defining
// it identically) overwrites the previous entry; callers that need
// strict-duplicate detection across dialects do that at merge time in the
// dialect package, not here.
func (s *Set) Register(id uint32, crcExtra uint8, wireLen, extendedLen int, factory Factory) {
	s.byID[id] = entry{factory: factory, crcExtra: crcExtra, wireLen: wireLen, extendedLen: extendedLen}
}

// CRCExtra implements frame.ExtraLookup.
func (s *Set) CRCExtra(id uint32) (uint8, bool) {
	e, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	return e.crcExtra, true
}

// Decode looks up id and parses payload into a fresh MessageData, zero
// padding a short payload to the declared extended length first: a v2
// sender that trimmed trailing zero bytes (including into the extension
// fields, not just up to the canonical wire length) still needs every
// extension field read as zero, so the pad target is ExtendedLen, not
// WireLen.
func (s *Set) Decode(id uint32, payload []byte) (Message, error) {
	e, ok := s.byID[id]
	if !ok {
		return Message{}, fmt.Errorf("registry: message id %d: %w", id, mavlinkerr.ErrUnknownMessage)
	}

	buf := payload
	if len(buf) < e.extendedLen {
		padded := make([]byte, e.extendedLen)
		copy(padded, buf)
		buf = padded
	}

	data := e.factory()
	if err := data.Parse(buf); err != nil {
		return Message{}, fmt.Errorf("registry: message id %d: %w", id, err)
	}
	return Message{Data: data, CRCExtra: e.crcExtra, WireLen: e.wireLen, ExtendedLen: e.extendedLen}, nil
}

// Lookup reports the generator-computed metadata for id without decoding
// anything, used by the writer to size its payload buffer.
func (s *Set) Lookup(id uint32) (crcExtra uint8, wireLen, extendedLen int, ok bool) {
	e, ok := s.byID[id]
	if !ok {
		return 0, 0, 0, false
	}
	return e.crcExtra, e.wireLen, e.extendedLen, true
}

// Merge copies every entry of other into s, overwriting any ids s already
// has. Used to compose several generated dialect packages into one Set for
// a connection.
func (s *Set) Merge(other *Set) {
	for id, e := range other.byID {
		s.byID[id] = e
	}
}

package frame

import (
	"context"
	"errors"
	"fmt"

	"github.com/windward-avionics/mavgo/crc"
	"github.com/windward-avionics/mavgo/mavlinkerr"
	"github.com/windward-avionics/mavgo/wire"
)

// ExtraLookup resolves a message id to its registry-defined crc_extra byte.
// Implemented by registry.Set; kept as a narrow interface here so frame
// never imports registry.
type ExtraLookup interface {
	CRCExtra(messageID uint32) (extra uint8, ok bool)
}

// SignatureVerifier validates a v2 signing trailer and decides whether an
// unsigned v2 frame is accepted (it is then called with a zero
// Signature). Implemented by
// signing.State; frame only depends on this narrow capability so frame and
// signing do not import one another.
type SignatureVerifier interface {
	Verify(hdr Header, payload []byte, checksum uint16, sig Signature) error
}

// Parser is the resynchronising frame state machine described in
// SeekMagic -> HeaderLen -> HeaderRest -> Payload -> Crc -> Signature? ->
// Deliver. One Parser owns one Source and is not safe for concurrent use.
type Parser struct {
	src      Source
	extras   ExtraLookup
	verifier SignatureVerifier // nil: signed frames are parsed but not verified, unsigned v2 frames accepted
}

// NewParser builds a parser reading from src, resolving crc_extra via
// extras. verifier may be nil if the caller does not want in-parser
// signature verification (e.g. a raw sniffer).
func NewParser(src Source, extras ExtraLookup, verifier SignatureVerifier) *Parser {
	return &Parser{src: src, extras: extras, verifier: verifier}
}

// ReadFrame returns the next valid frame from the stream. Errors wrapping
// mavlinkerr.ErrCRC, mavlinkerr.ErrUnknownMessage, or
// mavlinkerr.ErrSigningRejected, and the rejection of unsupported incompat
// bits, are recoverable (see IsRecoverable): the parser has already
// resynchronised by the time ReadFrame returns, and the caller should
// simply call ReadFrame again. Any other error (I/O, context cancellation,
// unexpected EOF) is fatal to the stream and must not be retried blindly.
func (p *Parser) ReadFrame(ctx context.Context) (*RawFrame, error) {
	return p.attempt(ctx)
}

// IsRecoverable reports whether err came from a parse failure the parser
// has already resynchronised past (bad CRC, unregistered message id,
// rejected signature, unsupported incompat bits). A caller such as a
// connection's recv loop should log these and call ReadFrame again rather
// than tearing down the stream. Any other error (I/O, context
// cancellation, unexpected EOF) is fatal.
func IsRecoverable(err error) bool {
	return errors.Is(err, mavlinkerr.ErrCRC) ||
		errors.Is(err, mavlinkerr.ErrUnknownMessage) ||
		errors.Is(err, mavlinkerr.ErrSigningRejected) ||
		errors.Is(err, errUnsupportedIncompat)
}

// attempt runs exactly one pass of the state machine: seek a magic byte,
// parse one candidate frame, and either deliver it or fail having advanced
// at least one byte past the attempted magic.
func (p *Parser) attempt(ctx context.Context) (*RawFrame, error) {
	version, err := p.seekMagic(ctx)
	if err != nil {
		return nil, err
	}

	// headerRest is the header length excluding the already-consumed magic
	// byte; every offset below is measured from the cursor as it stands
	// right after the magic, since that one byte is gone from the stream.
	headerRest := HeaderLenV1 - 1
	if version == MagicV2 {
		headerRest = HeaderLenV2 - 1
	}

	rest, err := p.src.PeekExact(ctx, headerRest)
	if err != nil {
		return nil, err
	}

	hdr, err := decodeHeader(version, rest)
	if err != nil {
		// Unknown incompat bits: the magic is already consumed and rest
		// was only peeked, never consumed, so returning here resumes
		// SeekMagic exactly one byte past the rejected magic.
		return nil, err
	}

	payloadLen := int(rest[0])

	full, err := p.src.PeekExact(ctx, headerRest+payloadLen)
	if err != nil {
		return nil, err
	}
	payload := append([]byte(nil), full[headerRest:]...)

	extra, ok := p.extras.CRCExtra(hdr.MessageID)
	if !ok {
		// Advance past the whole claimed frame (plus signature, if the
		// header says one follows) so the next attempt does not trip over
		// this frame's own trailer bytes.
		n := headerRest + payloadLen + 2
		if hdr.Signed() {
			n += SignatureLen
		}
		if _, err := p.src.PeekExact(ctx, n); err != nil {
			return nil, err
		}
		p.src.Consume(n)
		return nil, fmt.Errorf("frame: message id %d: %w", hdr.MessageID, mavlinkerr.ErrUnknownMessage)
	}

	withCRC, err := p.src.PeekExact(ctx, headerRest+payloadLen+2)
	if err != nil {
		return nil, err
	}
	wantCRC := crc.Extra(withCRC[:headerRest+payloadLen], extra)
	gotCRC, _ := wire.ReadU16(withCRC[headerRest+payloadLen:])
	if gotCRC != wantCRC {
		// Resynchronise one byte past the magic only: the magic is
		// already consumed and the rest was only peeked, so the next
		// SeekMagic starts right after it. The apparent length may itself
		// be noise, so never skip the whole frame.
		return nil, fmt.Errorf("frame: crc mismatch for message %d: %w", hdr.MessageID, mavlinkerr.ErrCRC)
	}

	frameRemaining := headerRest + payloadLen + 2
	var sig *Signature
	if hdr.Signed() {
		sigBytes, err := p.src.PeekExact(ctx, frameRemaining+SignatureLen)
		if err != nil {
			return nil, err
		}
		sig = decodeSignature(sigBytes[frameRemaining:])
		if p.verifier != nil {
			if verr := p.verifier.Verify(hdr, payload, gotCRC, *sig); verr != nil {
				p.src.Consume(frameRemaining + SignatureLen)
				return nil, fmt.Errorf("frame: %w: %v", mavlinkerr.ErrSigningRejected, verr)
			}
		}
		frameRemaining += SignatureLen
	} else if hdr.IsV2() && p.verifier != nil {
		// An unsigned v2 frame still goes through the verifier, which
		// decides whether unsigned frames are accepted on this link.
		if verr := p.verifier.Verify(hdr, payload, gotCRC, Signature{}); verr != nil {
			p.src.Consume(frameRemaining)
			return nil, fmt.Errorf("frame: %w: %v", mavlinkerr.ErrSigningRejected, verr)
		}
	}

	p.src.Consume(frameRemaining)

	return &RawFrame{
		Header:    hdr,
		Payload:   payload,
		Checksum:  gotCRC,
		Signature: sig,
	}, nil
}

// seekMagic consumes bytes one at a time until a v1 or v2 magic byte is
// found, then consumes that byte too and returns which version it was.
func (p *Parser) seekMagic(ctx context.Context) (uint8, error) {
	for {
		b, err := p.src.PeekExact(ctx, 1)
		if err != nil {
			return 0, err
		}
		magic := b[0]
		if magic == MagicV1 || magic == MagicV2 {
			p.src.Consume(1)
			return magic, nil
		}
		p.src.Consume(1)
	}
}

func decodeHeader(version uint8, rest []byte) (Header, error) {
	if version == MagicV1 {
		// v1 header-rest (after magic): len(1) seq(1) sysid(1) compid(1) msgid(1)
		return Header{
			Version:     MagicV1,
			Sequence:    rest[1],
			SystemID:    rest[2],
			ComponentID: rest[3],
			MessageID:   uint32(rest[4]),
		}, nil
	}

	// v2 header-rest (after magic): len(1) incompat(1) compat(1) seq(1)
	// sysid(1) compid(1) msgid(3, little-endian)
	incompat := rest[1]
	if incompat&^uint8(IncompatFlagSigned) != 0 {
		return Header{}, fmt.Errorf("frame: incompat_flags 0x%02x has unsupported bits: %w", incompat, errUnsupportedIncompat)
	}
	msgID, _ := wire.ReadU24(rest[6:9])
	return Header{
		Version:       MagicV2,
		IncompatFlags: incompat,
		CompatFlags:   rest[2],
		Sequence:      rest[3],
		SystemID:      rest[4],
		ComponentID:   rest[5],
		MessageID:     msgID,
	}, nil
}

func decodeSignature(b []byte) *Signature {
	s := &Signature{LinkID: b[0]}
	ts := uint64(0)
	for i := 5; i >= 0; i-- {
		ts = ts<<8 | uint64(b[1+i])
	}
	s.Timestamp = ts
	copy(s.Sig[:], b[7:13])
	return s
}

var errUnsupportedIncompat = errors.New("frame: unsupported incompat flag bit")

package frame

import (
	"fmt"
	"io"

	"github.com/windward-avionics/mavgo/crc"
	"github.com/windward-avionics/mavgo/wire"
)

// SignatureSigner produces a 13-byte signing trailer for an outgoing v2
// frame. Implemented by signing.State.
type SignatureSigner interface {
	Sign(hdr Header, payload []byte, checksum uint16) (Signature, error)
}

// WriteOptions controls how a single frame is serialised.
type WriteOptions struct {
	// Version selects MagicV1 or MagicV2. Required.
	Version uint8
	// CompatFlags is forwarded unchanged on v2; ignored on v1.
	CompatFlags uint8
	// Signer, if non-nil, signs the frame and sets incompat bit 0. Only
	// meaningful when Version is MagicV2.
	Signer SignatureSigner
}

// Write serialises one frame: header, payload (v2-trimmed), checksum, and
// optional signature, as a single contiguous write to w. The caller is
// responsible for the at-most-one-writer discipline (see the transport
// package's per-connection send lock); Write itself does not lock.
//
// payload must already be encoded by the registry and sized to WIRE_LEN
// (v1) or EXTENDED_LEN (v2); extra is the message's crc_extra byte.
func Write(w io.Writer, hdr Header, payload []byte, extra uint8, opts WriteOptions) error {
	if opts.Version != MagicV1 && opts.Version != MagicV2 {
		return fmt.Errorf("frame: invalid wire version 0x%02x", opts.Version)
	}

	body := payload
	if opts.Version == MagicV2 {
		body = wire.TrimTrailingZeros(payload)
	}
	if len(body) > MaxPayloadLen {
		return fmt.Errorf("frame: payload of %d bytes exceeds %d", len(body), MaxPayloadLen)
	}

	incompat := uint8(0)
	if opts.Version == MagicV2 && opts.Signer != nil {
		incompat = IncompatFlagSigned
	}

	headerLen := HeaderLenV1
	if opts.Version == MagicV2 {
		headerLen = HeaderLenV2
	}

	buf := make([]byte, headerLen+len(body)+2, headerLen+len(body)+2+SignatureLen)
	buf[0] = opts.Version
	buf[1] = byte(len(body))

	switch opts.Version {
	case MagicV1:
		buf[2] = hdr.Sequence
		buf[3] = hdr.SystemID
		buf[4] = hdr.ComponentID
		buf[5] = byte(hdr.MessageID)
	case MagicV2:
		buf[2] = incompat
		buf[3] = opts.CompatFlags
		buf[4] = hdr.Sequence
		buf[5] = hdr.SystemID
		buf[6] = hdr.ComponentID
		if err := wire.WriteU24(buf[7:10], hdr.MessageID); err != nil {
			return fmt.Errorf("frame: message id %d: %w", hdr.MessageID, err)
		}
	}

	copy(buf[headerLen:], body)

	checksum := crc.Extra(buf[1:headerLen+len(body)], extra)
	wire.WriteU16(buf[headerLen+len(body):], checksum) //nolint:errcheck // slice is exactly 2 bytes

	if opts.Version == MagicV2 && opts.Signer != nil {
		outHdr := hdr
		outHdr.IncompatFlags = incompat
		outHdr.Version = MagicV2
		sig, err := opts.Signer.Sign(outHdr, body, checksum)
		if err != nil {
			return fmt.Errorf("frame: signing: %w", err)
		}
		buf = append(buf, encodeSignature(sig)...)
	}

	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return io.ErrShortWrite
	}
	return nil
}

func encodeSignature(s Signature) []byte {
	out := make([]byte, SignatureLen)
	out[0] = s.LinkID
	ts := s.Timestamp
	for i := 0; i < 6; i++ {
		out[1+i] = byte(ts)
		ts >>= 8
	}
	copy(out[7:13], s.Sig[:])
	return out
}

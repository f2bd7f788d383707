// Package transport multiplexes MAVLink connections across serial, TCP,
// UDP, and file-replay byte sources behind one Connection interface, the
// way the reference crate's connection module does it per transport kind
// but using idiomatic Go capability interfaces and constructor functions
// instead of a closed transport enum.
package transport

import (
	"context"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/registry"
	"github.com/windward-avionics/mavgo/signing"
)

// Version selects which wire version a connection sends with, and which
// version(s) it accepts on receive when AllowRecvAnyVersion is false.
type Version uint8

// The two MAVLink wire versions, aliasing the frame package's magic
// bytes so a caller never has to import frame just to pick one.
const (
	V1 Version = frame.MagicV1
	V2 Version = frame.MagicV2
)

// Header is the connection-level framing identity of a message: the
// fields a caller supplies on Send and receives back from Recv, re-
// exporting frame.Header so transport callers need not import frame for
// this common case.
type Header = frame.Header

// Connection is a bidirectional, resynchronizing MAVLink byte stream: one
// physical link (serial port, TCP/UDP socket, or replay file) wrapped
// with framing, CRC validation, optional v2 signing, and typed message
// decode.
type Connection interface {
	// Recv blocks until one valid, fully decoded message arrives,
	// skipping (with a debug log line) frames this connection's registry
	// cannot decode or that fail CRC/signing. ctx is honoured in
	// cooperative mode on a transport with read deadlines, and by UDP
	// between datagrams; a read blocked on the transport in the default
	// blocking mode is not interrupted by ctx.
	Recv(ctx context.Context) (Header, registry.Message, error)
	// RecvRaw is Recv without registry decode: header, payload, CRC,
	// and signature only.
	RecvRaw(ctx context.Context) (*frame.RawFrame, error)
	// TryRecv is the non-blocking variant: it returns immediately,
	// either with one message or an error indicating none was ready.
	TryRecv() (Header, registry.Message, error)
	// Send serialises and writes one message, returning the number of
	// bytes written.
	Send(ctx context.Context, hdr Header, msg registry.MessageData) (int, error)
	// SetProtocolVersion selects the version Send uses and, when
	// AllowRecvAnyVersion is false, the only version Recv accepts.
	SetProtocolVersion(v Version)
	// ProtocolVersion reports the version set by SetProtocolVersion.
	ProtocolVersion() Version
	// SetAllowRecvAnyVersion toggles whether Recv accepts both v1 and
	// v2 frames regardless of ProtocolVersion.
	SetAllowRecvAnyVersion(bool)
	// SetupSigning installs (or, passed nil, removes) v2 signing for
	// this connection. Safe to call at any point in the connection's
	// lifetime. nil removes the signing state: outgoing frames are sent
	// unsigned, unsigned incoming frames are accepted, and signed
	// incoming frames are rejected.
	SetupSigning(cfg *signing.Config)
	// Close releases the underlying transport.
	Close() error
}

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/ioreader"
	"github.com/windward-avionics/mavgo/mavlinkerr"
	"github.com/windward-avionics/mavgo/registry"
	"github.com/windward-avionics/mavgo/signing"
)

// signingProxy forwards frame.SignatureVerifier/SignatureSigner calls to
// whatever signing.State is currently installed, so Connection.SetupSigning
// can swap it at runtime without rebuilding the frame.Parser that was
// constructed with this proxy as its fixed verifier/signer.
type signingProxy struct {
	mu    sync.RWMutex
	state *signing.State
}

func (p *signingProxy) set(s *signing.State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *signingProxy) get() *signing.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *signingProxy) Verify(hdr frame.Header, payload []byte, checksum uint16, sig frame.Signature) error {
	s := p.get()
	if s == nil {
		if !hdr.Signed() {
			return nil
		}
		return fmt.Errorf("%w: signed frame received with signing not configured", mavlinkerr.ErrSigningRejected)
	}
	return s.Verify(hdr, payload, checksum, sig)
}

func (p *signingProxy) Sign(hdr frame.Header, payload []byte, checksum uint16) (frame.Signature, error) {
	s := p.get()
	if s == nil {
		return frame.Signature{}, fmt.Errorf("transport: Sign called with signing not configured")
	}
	return s.Sign(hdr, payload, checksum)
}

// base holds everything common to every transport implementation:
// decoding (parser + registry), the outgoing version/signing state, and
// the single send-path lock sendMsg takes itself, so concurrent Send
// callers never interleave frames.
type base struct {
	messages *registry.Set
	parser   *frame.Parser
	signer   *signingProxy

	versionMu sync.RWMutex
	version   Version
	allowAny  bool

	sendMu   sync.Mutex
	write    func([]byte) (int, error)
	sequence uint8 // next outgoing sequence number; guarded by sendMu

	log *slog.Logger
}

func newBase(src frame.Source, w io.Writer, messages *registry.Set, cfg config) *base {
	b := newBasePacketOriented(messages, w.Write, cfg)
	b.parser = frame.NewParser(src, messages, b.signer)
	return b
}

// newSource builds the frame.Source a stream transport (TCP, serial,
// file) reads from, honoring both WithCooperativeScheduling and
// WithEmbeddedBuffers: when cfg.bufferSize is set, the underlying
// ioreader is given a fixed-capacity buffer (NewBounded/NewCtxBounded)
// that never grows past it instead of the default unbounded one, so a
// frame larger than the configured buffer fails with
// mavlinkerr.ErrCapacity instead of allocating further.
func newSource(r io.Reader, cfg config) frame.Source {
	if cfg.cooperative {
		if cfg.bufferSize > 0 {
			return frame.NewCooperativeSource(ioreader.NewCtxBounded(r, cfg.bufferSize))
		}
		return frame.NewCooperativeSource(ioreader.NewCtx(r))
	}
	if cfg.bufferSize > 0 {
		return frame.NewBlockingSource(ioreader.NewBounded(r, cfg.bufferSize))
	}
	return frame.NewBlockingSource(ioreader.New(r))
}

// newBasePacketOriented builds a base with no persistent stream parser,
// for transports (UDP) that construct a fresh one-shot parser per
// datagram instead of treating the connection as one continuous byte
// stream.
func newBasePacketOriented(messages *registry.Set, write func([]byte) (int, error), cfg config) *base {
	proxy := &signingProxy{}
	if cfg.signingCfg != nil {
		proxy.set(signing.NewState(*cfg.signingCfg, nil))
	}
	return &base{
		messages: messages,
		signer:   proxy,
		version:  V2,
		write:    write,
		log:      defaultLogger(),
	}
}

func (b *base) SetProtocolVersion(v Version) {
	b.versionMu.Lock()
	b.version = v
	b.versionMu.Unlock()
}

func (b *base) ProtocolVersion() Version {
	b.versionMu.RLock()
	defer b.versionMu.RUnlock()
	return b.version
}

func (b *base) SetAllowRecvAnyVersion(allow bool) {
	b.versionMu.Lock()
	b.allowAny = allow
	b.versionMu.Unlock()
}

func (b *base) SetupSigning(cfg *signing.Config) {
	if cfg == nil {
		b.signer.set(nil)
		return
	}
	b.signer.set(signing.NewState(*cfg, nil))
}

// recvLoop reads raw frames until one decodes to a known, version-
// acceptable message, logging and skipping everything else: CRC
// failures, unknown message ids, rejected signatures, and frames of a
// version this connection is not currently accepting. It never returns
// on those recoverable errors, matching the reference crate's recv()
// "blocks until a valid frame" contract; only an unrecoverable (Io, or
// ctx cancellation) error is returned.
func (b *base) recvLoop(ctx context.Context) (Header, registry.Message, error) {
	for {
		raw, err := b.parser.ReadFrame(ctx)
		if err != nil {
			if frame.IsRecoverable(err) {
				b.log.Debug("skipping unreadable frame", "error", err)
				continue
			}
			return Header{}, registry.Message{}, err
		}
		if !b.acceptsVersion(raw.Header) {
			b.log.Debug("skipping frame of unaccepted version", "version", raw.Header.Version)
			continue
		}
		msg, err := b.messages.Decode(raw.Header.MessageID, raw.Payload)
		if err != nil {
			b.log.Debug("skipping undecodable message", "error", err)
			continue
		}
		return raw.Header, msg, nil
	}
}

func (b *base) acceptsVersion(hdr frame.Header) bool {
	b.versionMu.RLock()
	defer b.versionMu.RUnlock()
	if b.allowAny {
		return true
	}
	return hdr.Version == uint8(b.version)
}

// recvOnce attempts exactly one frame parse, without retrying past a
// recoverable error, mirroring the reference crate's try_recv: a single
// non-blocking read attempt, whatever its outcome. Callers needing the
// non-blocking transport-level setup (deadline, nonblocking fd) wrap this.
func (b *base) recvOnce(ctx context.Context) (Header, registry.Message, error) {
	raw, err := b.parser.ReadFrame(ctx)
	if err != nil {
		return Header{}, registry.Message{}, err
	}
	if !b.acceptsVersion(raw.Header) {
		return Header{}, registry.Message{}, fmt.Errorf("transport: received frame of unaccepted version %#x", raw.Header.Version)
	}
	msg, err := b.messages.Decode(raw.Header.MessageID, raw.Payload)
	if err != nil {
		return Header{}, registry.Message{}, err
	}
	return raw.Header, msg, nil
}

// parseDatagram runs exactly one frame.Parser pass over one already-
// received datagram's bytes in isolation, so a short or noisy datagram
// can never pull bytes from the next one: each UDP packet is its own
// self-contained frame attempt, never a byte-stream straddling packet
// boundaries.
func (b *base) parseDatagram(ctx context.Context, datagram []byte) (*frame.RawFrame, error) {
	src := frame.NewBlockingSource(ioreader.New(bytes.NewReader(datagram)))
	parser := frame.NewParser(src, b.messages, b.signer)
	return parser.ReadFrame(ctx)
}

// recvRawLoop is recvLoop without the registry decode step, used by
// RecvRaw.
func (b *base) recvRawLoop(ctx context.Context) (*frame.RawFrame, error) {
	for {
		raw, err := b.parser.ReadFrame(ctx)
		if err != nil {
			if frame.IsRecoverable(err) {
				b.log.Debug("skipping unreadable frame", "error", err)
				continue
			}
			return nil, err
		}
		if !b.acceptsVersion(raw.Header) {
			continue
		}
		return raw, nil
	}
}

// sendMsg serialises msg under hdr at the connection's current protocol
// version and writes it through write, holding sendMu for the duration
// so concurrent Send callers cannot interleave partial frames.
func (b *base) sendMsg(hdr Header, msg registry.MessageData) (int, error) {
	crcExtra, wireLen, extendedLen, ok := b.messages.Lookup(msg.ID())
	if !ok {
		return 0, fmt.Errorf("transport: message %q (id %d): %w", msg.Name(), msg.ID(), mavlinkerr.ErrUnknownMessage)
	}

	payload, err := msg.Serialise()
	if err != nil {
		return 0, fmt.Errorf("transport: serialising %q: %w", msg.Name(), err)
	}
	if len(payload) != extendedLen && len(payload) != wireLen {
		return 0, fmt.Errorf("transport: %q serialised to %d bytes, want %d or %d", msg.Name(), len(payload), wireLen, extendedLen)
	}

	hdr.MessageID = msg.ID()
	version := b.ProtocolVersion()
	hdr.Version = uint8(version)

	var signer frame.SignatureSigner
	if version == V2 && b.signer.get() != nil {
		signer = b.signer
	}

	b.sendMu.Lock()
	defer b.sendMu.Unlock()

	// The connection owns its own outgoing sequence counter: a caller-
	// supplied sequence number is overwritten, the same contract the
	// reference crate's per-transport send() implementations use.
	hdr.Sequence = b.sequence
	b.sequence++

	var buf bufWriter
	opts := frame.WriteOptions{Version: uint8(version), Signer: signer}
	if err := frame.Write(&buf, hdr, payload, crcExtra, opts); err != nil {
		return 0, fmt.Errorf("transport: writing %q: %w", msg.Name(), err)
	}

	return b.write(buf.bytes)
}

// bufWriter is the minimal io.Writer frame.Write needs to build one
// frame in memory before it is handed to the transport's single write
// call, keeping the send-lock window to exactly one underlying Write.
type bufWriter struct{ bytes []byte }

func (w *bufWriter) Write(p []byte) (int, error) {
	w.bytes = append(w.bytes, p...)
	return len(p), nil
}

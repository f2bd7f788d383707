package transport

import (
	"fmt"

	"github.com/windward-avionics/mavgo/frame"
	"github.com/windward-avionics/mavgo/mavlinkerr"
	"github.com/windward-avionics/mavgo/signing"
)

// config collects every Option's effect before a transport is actually
// opened, so Dial can validate combinations once at construction instead
// of each implementation re-deriving the same checks.
type config struct {
	cooperative bool
	bufferSize  int // 0 means "use the transport's own default"
	signingCfg  *signing.Config
}

// Option configures a Connection at Dial time. Options are validated
// together by Dial before any socket/port/file is opened, so a
// misconfiguration never surfaces as a runtime failure mid-stream.
type Option func(*config) error

// WithCooperativeScheduling selects the context-aware (ioreader.CtxReader)
// read path instead of the default blocking one, for callers running many
// connections cooperatively on a small number of goroutines.
func WithCooperativeScheduling() Option {
	return func(c *config) error {
		c.cooperative = true
		return nil
	}
}

// WithEmbeddedBuffers bounds the connection's internal read buffer to a
// fixed size instead of the transport default, for callers on a memory-
// constrained target. size must be large enough to hold one full signed
// frame (frame.MaxFrameLenSigned bytes): a smaller buffer can never
// deliver a maximally-sized signed frame at all, which is a configuration
// error, not a runtime one.
func WithEmbeddedBuffers(size int) Option {
	return func(c *config) error {
		if size < frame.MaxFrameLenSigned {
			return fmt.Errorf("transport: embedded buffer of %d bytes cannot hold a %d-byte signed frame: %w",
				size, frame.MaxFrameLenSigned, mavlinkerr.ErrConfig)
		}
		c.bufferSize = size
		return nil
	}
}

// WithSigning installs a signing configuration at construction time,
// equivalent to calling Connection.SetupSigning immediately after Dial
// returns.
func WithSigning(cfg signing.Config) Option {
	return func(c *config) error {
		c.signingCfg = &cfg
		return nil
	}
}

func buildConfig(opts []Option) (config, error) {
	var c config
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return config{}, err
		}
	}
	return c, nil
}

package transport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/windward-avionics/mavgo/mavlinkerr"
	"github.com/windward-avionics/mavgo/registry"
)

// Dial opens a connection from an address string of the form
// "<kind>:<host>:<port>", "serial:<device>:<baud>", or "file:<path>",
// where kind is one of tcpin, tcpout, udpin, udpout, udpbcast (udpcast is
// accepted as a documented alias), serial, or file. Invalid grammar
// returns mavlinkerr.ErrBadAddress; dialing failures bubble up from the
// underlying net/serial/os call.
func Dial(address string, messages *registry.Set, opts ...Option) (Connection, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	kind, rest, ok := strings.Cut(address, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q has no \"kind:\" prefix", mavlinkerr.ErrBadAddress, address)
	}

	switch kind {
	case "tcpin", "tcpout":
		if !hasHostPort(rest) {
			return nil, fmt.Errorf("%w: %q: want %s:<host>:<port>", mavlinkerr.ErrBadAddress, address, kind)
		}
		return dialTCP(kind == "tcpin", rest, messages, cfg)

	case "udpin", "udpout", "udpbcast", "udpcast":
		if !hasHostPort(rest) {
			return nil, fmt.Errorf("%w: %q: want %s:<host>:<port>", mavlinkerr.ErrBadAddress, address, kind)
		}
		return dialUDP(kind, rest, messages, cfg)

	case "serial":
		device, baudStr, ok := strings.Cut(rest, ":")
		if !ok || device == "" || baudStr == "" {
			return nil, fmt.Errorf("%w: %q: want serial:<device>:<baud>", mavlinkerr.ErrBadAddress, address)
		}
		baud, err := strconv.Atoi(baudStr)
		if err != nil || baud <= 0 {
			return nil, fmt.Errorf("%w: %q: baud rate must be a positive integer", mavlinkerr.ErrBadAddress, address)
		}
		return dialSerial(device, baud, messages, cfg)

	case "file":
		if rest == "" {
			return nil, fmt.Errorf("%w: %q: want file:<path>", mavlinkerr.ErrBadAddress, address)
		}
		return dialFile(rest, messages, cfg)

	default:
		return nil, fmt.Errorf("%w: %q: unknown kind %q", mavlinkerr.ErrBadAddress, address, kind)
	}
}

// hasHostPort reports whether rest looks like "<host>:<port>" — a host
// (not checked here, and possibly empty), a colon, and a port. The port
// segment after the last colon must be present and numeric, since net.ResolveTCPAddr/UDPAddr otherwise
// accept strings this package's grammar is meant to reject up front.
func hasHostPort(rest string) bool {
	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return false
	}
	port := rest[i+1:]
	if port == "" {
		return false
	}
	if _, err := strconv.Atoi(port); err != nil {
		return false
	}
	return true
}

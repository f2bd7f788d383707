//go:build !unix

package transport

import "net"

// enableBroadcast has no portable equivalent of SO_BROADCAST outside the
// unix socket option family; udpbcast/udpcast fall back to dialing the
// broadcast address directly without flipping the socket flag.
func enableBroadcast(socket *net.UDPConn) error {
	return nil
}

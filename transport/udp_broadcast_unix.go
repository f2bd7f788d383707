//go:build unix

package transport

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// enableBroadcast sets SO_BROADCAST on socket's underlying file
// descriptor so sends to a broadcast address (e.g. 255.255.255.255) are
// permitted, the same option the reference crate's udpbcast mode sets
// through std::net::UdpSocket::set_broadcast.
func enableBroadcast(socket *net.UDPConn) error {
	raw, err := socket.SyscallConn()
	if err != nil {
		return fmt.Errorf("transport: accessing udp socket fd: %w", err)
	}
	var sockErr error
	if err := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	}); err != nil {
		return fmt.Errorf("transport: setting SO_BROADCAST: %w", err)
	}
	if sockErr != nil {
		return fmt.Errorf("transport: setting SO_BROADCAST: %w", sockErr)
	}
	return nil
}

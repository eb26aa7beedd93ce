// Package udptransport implements host.Transport over real IPv4 UDP
// multicast, grounded on joshuafuller/beacon's internal/transport
// UDPv4Transport: a net.PacketConn wrapped in an ipv4.PacketConn so the
// receive path can recover the arriving interface index from IP_PKTINFO
// control messages, exactly as that transport recovers it for mDNS.
package udptransport

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"

	"github.com/jubueche/Routing-Information-Protocol/host"
)

// Port is the standard RIP UDP port (RFC 2453 section 1).
const Port = 520

// InterfaceResolver maps the engine's interface index to the OS-level
// *net.Interface needed to join the multicast group and to steer an
// outbound send, since the engine's InterfaceProvider speaks in its own
// small integer indices, not OS interface indices.
type InterfaceResolver func(outgoingIntf uint32) (*net.Interface, error)

// Transport is a host.Transport and a packet source for the RIP
// multicast group.
type Transport struct {
	conn    *net.UDPConn
	pconn   *ipv4.PacketConn
	resolve InterfaceResolver
}

// New opens a UDP socket bound to the RIP multicast port and joins the
// RIP multicast group (224.0.0.9) on every interface index in joinOn,
// so the host both sends and receives RIPv2 multicast traffic. New
// fails if any of those indices cannot be resolved or joined.
// resolve is also consulted on every SendPayload call to pin the
// outbound interface for that send.
func New(resolve InterfaceResolver, joinOn []uint32) (*Transport, error) {
	addr := &net.UDPAddr{IP: host.RIPMulticastAddr, Port: Port}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: Port})
	if err != nil {
		return nil, &host.NetworkError{Operation: "listen udp", Err: err, Details: fmt.Sprintf("port %d", Port)}
	}

	pconn := ipv4.NewPacketConn(conn)
	if err := pconn.SetControlMessage(ipv4.FlagInterface, true); err != nil {
		// Best-effort: if the platform can't report the arriving
		// interface, Receive falls back to interface index 0.
		_ = err
	}

	t := &Transport{conn: conn, pconn: pconn, resolve: resolve}

	for _, idx := range joinOn {
		ifc, err := resolve(idx)
		if err != nil {
			_ = t.Close()
			return nil, &host.NetworkError{Operation: "resolve join interface", Err: err}
		}
		if err := pconn.JoinGroup(ifc, addr); err != nil {
			_ = t.Close()
			return nil, &host.NetworkError{Operation: "join multicast group", Err: err, Details: ifc.Name}
		}
	}

	return t, nil
}

// SendPayload implements host.Transport: it steers the send out
// outgoingIntf by pinning the packet connection's multicast interface
// before writing, then sends to the RIP multicast port on dstIP.
func (t *Transport) SendPayload(dstIP, nextHopIP net.IP, outgoingIntf uint32, payload []byte) error {
	ifc, err := t.resolve(outgoingIntf)
	if err != nil {
		return &host.NetworkError{Operation: "resolve send interface", Err: err}
	}
	if err := t.pconn.SetMulticastInterface(ifc); err != nil {
		return &host.NetworkError{Operation: "set multicast interface", Err: err, Details: ifc.Name}
	}

	dst := &net.UDPAddr{IP: dstIP, Port: Port}
	n, err := t.pconn.WriteTo(payload, nil, dst)
	if err != nil {
		return &host.NetworkError{Operation: "send payload", Err: err, Details: dst.String()}
	}
	if n != len(payload) {
		return &host.NetworkError{
			Operation: "send payload",
			Err:       fmt.Errorf("partial write: %d/%d bytes", n, len(payload)),
		}
	}
	return nil
}

// Receive blocks for one incoming datagram, returning its payload, the
// sender's IP, and the arriving interface index translated back to the
// engine's own interface-index space via toEngineIndex (typically the
// inverse of the InterfaceResolver supplied to New). Interface index 0
// is returned when the platform could not report a control message.
func (t *Transport) Receive(ctx context.Context, toEngineIndex func(osIfIndex int) uint32) ([]byte, net.IP, uint32, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := t.conn.SetReadDeadline(deadline); err != nil {
			return nil, nil, 0, &host.NetworkError{Operation: "set read deadline", Err: err}
		}
	}

	buf := make([]byte, 1500)
	n, cm, srcAddr, err := t.pconn.ReadFrom(buf)
	if err != nil {
		return nil, nil, 0, &host.NetworkError{Operation: "receive payload", Err: err}
	}

	var intf uint32
	if cm != nil {
		intf = toEngineIndex(cm.IfIndex)
	}

	src, _ := srcAddr.(*net.UDPAddr)
	var srcIP net.IP
	if src != nil {
		srcIP = src.IP
	}

	out := make([]byte, n)
	copy(out, buf[:n])
	return out, srcIP, intf, nil
}

// Close releases the underlying socket.
func (t *Transport) Close() error {
	if t.conn == nil {
		return nil
	}
	if err := t.conn.Close(); err != nil {
		return &host.NetworkError{Operation: "close socket", Err: err}
	}
	return nil
}

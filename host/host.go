// Package host defines the collaborators the RIP engine consumes but
// does not implement: interface enumeration, interface state/cost
// reporting, and raw datagram delivery. spec.md section 6 specifies
// these as host-provided callbacks; this package is their Go-shaped
// interface boundary. Concrete implementations live in hostnet (stdlib
// net.Interfaces), netlinkhost (Linux rtnetlink), and the in-memory
// double in fake.go used by the engine's own tests.
package host

import "net"

// RIPMulticastAddr is the destination and next-hop IP every outbound
// RIP datagram carries (spec.md section 6).
var RIPMulticastAddr = net.IPv4(224, 0, 0, 9)

// Interface describes one local interface as the host reports it.
// All fields are zero for an invalid index (spec.md section 6).
type Interface struct {
	IP      net.IP
	Mask    net.IPMask
	Cost    uint32
	Enabled bool
}

// Zero reports whether this Interface is the all-fields-zero sentinel
// returned for an invalid index.
func (i Interface) Zero() bool {
	return i.IP == nil && i.Mask == nil && i.Cost == 0 && !i.Enabled
}

// Subnet returns the network address of this interface's attached
// subnet (IP masked by Mask).
func (i Interface) Subnet() net.IP {
	return i.IP.Mask(i.Mask)
}

// InterfaceProvider answers the two host queries the engine needs to
// seed origin routes and to resolve rule C/E's local-interface lookups:
// how many interfaces exist, and what is interface i's current state.
type InterfaceProvider interface {
	// InterfaceCount returns the number of local interfaces.
	InterfaceCount() uint32
	// GetInterface returns a copy of interface index. All fields are
	// zero if index is invalid.
	GetInterface(index uint32) Interface
}

// Transport sends a fire-and-forget RIP datagram. The buffer is
// borrowed: SendPayload must not retain it past the call (spec.md
// section 5, "Buffers passed to send_payload are borrowed").
type Transport interface {
	SendPayload(dstIP, nextHopIP net.IP, outgoingIntf uint32, payload []byte) error
}

// NetworkError reports a failure from a Transport or InterfaceProvider
// implementation talking to the real network stack. Modeled on the
// Operation/Err/Details shape used for transport failures elsewhere in
// this kind of codebase (joshuafuller/beacon's internal/errors.NetworkError).
type NetworkError struct {
	Operation string
	Err       error
	Details   string
}

func (e *NetworkError) Error() string {
	if e.Details == "" {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": " + e.Err.Error() + " (" + e.Details + ")"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

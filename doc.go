// Package rip implements the core of a RIPv2 (RFC 2453) distance-vector
// routing engine for a host router: a routing table, a periodic
// advertisement scheduler, and a packet/interface-change reactor that
// converges the table on shortest paths under Bellman-Ford relaxation.
//
// The link-layer transport, interface enumeration, and clock are host
// responsibilities the engine consumes through the host package's
// interfaces, not implements — see hostnet and netlinkhost for
// interface enumeration, udptransport for datagram delivery, and the
// clock package for the monotonic time source.
package rip

// Package table implements the routing table: a collection of route
// records keyed uniquely by destination subnet. Iteration order is not
// defined.
//
// The original implementation (dr_api.c) keeps routes in a hand-rolled
// singly-linked list with raw pointer ownership, walked head-to-tail
// for every lookup. This package keeps that "walk every record" search
// strategy — the engine's table is small (one entry per known subnet,
// not per path) and a linear scan keeps longest-match trivially
// correct — but replaces the list with a map keyed by subnet so
// insert/remove/find are O(1) and no use-after-free is possible during
// a removal-safe sweep (design note Q4).
package table

import (
	"encoding/binary"
	"net"
)

// Infinity is the RIP metric that means "unreachable".
const Infinity = 16

// Route is one routing table record (spec.md section 3).
type Route struct {
	// Subnet is the destination network number, after masking.
	Subnet uint32
	// Mask is the subnet mask for Subnet.
	Mask uint32
	// NextHopIP is the next hop toward Subnet; zero means directly
	// connected on OutgoingIntf.
	NextHopIP uint32
	// OutgoingIntf is the local interface index used to reach NextHopIP.
	OutgoingIntf uint32
	// Cost is the route metric, 1..=16 (16 is unreachable/poison).
	Cost uint32
	// LearnedFrom is the neighbor IP that taught us this route; zero
	// for a locally originated (directly connected) route.
	LearnedFrom uint32
	// LastUpdated is a clock.Clock millisecond timestamp.
	LastUpdated int64
	// IsGarbage marks a route pending removal (advertised once more at
	// Infinity before it disappears).
	IsGarbage bool
}

// Origin reports whether r represents a directly connected subnet
// (invariant I3: LearnedFrom == 0 implies NextHopIP == 0).
func (r Route) Origin() bool {
	return r.LearnedFrom == 0
}

// Table is a mapping from subnet to Route, unique on Subnet (invariant I4).
// The zero value is not ready to use; call New.
type Table struct {
	routes map[uint32]*Route
}

// New creates an empty Table.
func New() *Table {
	return &Table{routes: make(map[uint32]*Route)}
}

// InsertOrUpdate overwrites all fields of the record keyed by
// route.Subnet, or appends it if no such record exists. Returns true if
// the key was new.
func (t *Table) InsertOrUpdate(route Route) bool {
	_, existed := t.routes[route.Subnet]
	r := route
	t.routes[route.Subnet] = &r
	return !existed
}

// Remove deletes the record for subnet if present. Idempotent.
func (t *Table) Remove(subnet uint32) {
	delete(t.routes, subnet)
}

// FindBySubnet returns a copy of the record for subnet, and whether it
// was found. Callers must not assume the returned Route stays in sync
// with the table; re-fetch after any mutation.
func (t *Table) FindBySubnet(subnet uint32) (Route, bool) {
	r, ok := t.routes[subnet]
	if !ok {
		return Route{}, false
	}
	return *r, true
}

// Update applies fn to the stored record for subnet, if present, and
// reports whether a record existed to update. fn mutates in place.
func (t *Table) Update(subnet uint32, fn func(*Route)) bool {
	r, ok := t.routes[subnet]
	if !ok {
		return false
	}
	fn(r)
	return true
}

// NoRouteInterface and NoRouteNextHop are the sentinel values
// LongestMatch (and, via it, the engine's GetNextHop) returns when no
// route matches an IP (spec.md section 4.1 / 4.6).
const (
	NoRouteInterface = 0
	NoRouteNextHop   = 0xFFFFFFFF
)

// LongestMatch scans every record and returns the outgoing interface
// and next-hop IP of the record whose (ip & mask) == subnet with the
// longest (most specific) mask. Ties between equally long masks go to
// the record with the lower Subnet value, so the result does not depend
// on map iteration order (design note Q2).
//
// If no record matches, returns the (0, 0xFFFFFFFF) sentinel the host
// interprets as "no route".
func (t *Table) LongestMatch(ip uint32) (outgoingIntf uint32, nextHopIP uint32) {
	var best *Route
	var bestMaskLen int
	for _, r := range t.routes {
		if ip&r.Mask != r.Subnet {
			continue
		}
		ml := maskLen(r.Mask)
		if best == nil || ml > bestMaskLen || (ml == bestMaskLen && r.Subnet < best.Subnet) {
			best = r
			bestMaskLen = ml
		}
	}
	if best == nil {
		return NoRouteInterface, NoRouteNextHop
	}
	return best.OutgoingIntf, best.NextHopIP
}

// maskLen counts the one-bits in a subnet mask, which for a contiguous
// CIDR mask like 255.255.255.0 is its prefix length (24).
// Adapted from the contiguous-prefix containment check the teacher's
// radix trie used to decide which edge a network belonged under
// (radix/radix.go's contains), but expressed as a simple popcount
// since this table does not need a trie to answer "which mask is more
// specific".
func maskLen(mask uint32) int {
	n := 0
	for mask != 0 {
		n += int(mask & 1)
		mask >>= 1
	}
	return n
}

// Iterate visits every record exactly once, calling fn with a copy of
// each route. fn may call Remove(route.Subnet) on the table — Iterate
// snapshots the subnet keys up front so removing the currently-yielded
// record (or any other) during the callback never revisits a freed
// entry or skips a live one (design note Q4: "removal-safe traversal").
func (t *Table) Iterate(fn func(Route)) {
	subnets := make([]uint32, 0, len(t.routes))
	for s := range t.routes {
		subnets = append(subnets, s)
	}
	for _, s := range subnets {
		r, ok := t.routes[s]
		if !ok {
			continue // removed by an earlier callback in this same sweep
		}
		fn(*r)
	}
}

// Len returns the number of records currently stored.
func (t *Table) Len() int {
	return len(t.routes)
}

// IPToUint32 converts a net.IP (v4 or v4-in-v6) to its big-endian
// uint32 representation, as used throughout Route and the wire codec.
func IPToUint32(ip net.IP) uint32 {
	v4 := ip.To4()
	if v4 == nil {
		return 0
	}
	return binary.BigEndian.Uint32(v4)
}

// Uint32ToIP is the inverse of IPToUint32.
func Uint32ToIP(v uint32) net.IP {
	b := make(net.IP, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// MaskToUint32 converts a net.IPMask to its big-endian uint32 form.
func MaskToUint32(mask net.IPMask) uint32 {
	if len(mask) == 16 {
		mask = mask[12:]
	}
	if len(mask) != 4 {
		return 0
	}
	return binary.BigEndian.Uint32(mask)
}

// Uint32ToMask is the inverse of MaskToUint32.
func Uint32ToMask(v uint32) net.IPMask {
	b := make(net.IPMask, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

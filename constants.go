package rip

import "time"

// RFC 2453 section 3.8, "Timers":
//
//    Every 30 seconds, the RIP process is awakened [...] to send an
//    unsolicited Response message [...] To avoid the situation where
//    updates from different routers become synchronized, [...] the
//    regular update timer is randomized [...]
//
// This engine does not implement the classic 30-second unsolicited
// full-table broadcast RFC 2453 describes; spec.md section 4.7 instead
// drives a single periodic tick at TickInterval, whose handler both
// advertises the whole table and sweeps for aged-out routes on every
// firing, so the 10-second RIP cadence NominalAdvertiseInterval names
// is achieved only as a "soft target" of the combined tick+aging
// behavior, not a literal send interval. See DESIGN.md's note on this
// Open Question for why both constants are kept.
const (
	// Infinity is the RIP metric meaning "unreachable" (spec.md section 6).
	Infinity uint32 = 16

	// Version is the RIP protocol version this engine speaks and requires
	// on decode.
	Version byte = 2

	// TickInterval is the scheduler's default period: how often
	// handle_periodic fires (spec.md section 4.7, "default 1 second").
	TickInterval = 1 * time.Second

	// NominalAdvertiseInterval is the classic RIP advertisement cadence
	// spec.md section 6 names as a constant (ADVERT_INTERVAL = 10s). It
	// is not used to schedule anything directly in this engine — see
	// the comment above — but is exposed for callers (and tests
	// checking scenario S1's "within <=3 periodic ticks" convergence
	// bound) that want to reason about it.
	NominalAdvertiseInterval = 10 * time.Second

	// Timeout is RIP_TIMEOUT: a route not refreshed within this long is
	// marked garbage and removed (spec.md section 4.3 step 2).
	Timeout = 20 * time.Second

	// Garbage is RIP_GARBAGE. spec.md section 9 (design note Q3) flags
	// that the original implementation conflates this with Timeout,
	// skipping the standard RIP garbage-collection holdover during
	// which a route is advertised as unreachable before removal. This
	// engine preserves that conflation deliberately (see DESIGN.md):
	// Garbage equals Timeout, and the single broadcast emitted at
	// removal (metric Infinity) is the only unreachability
	// announcement a departing route gets.
	Garbage = 20 * time.Second
)

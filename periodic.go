package rip

import (
	"go.uber.org/zap"

	"github.com/jubueche/Routing-Information-Protocol/table"
)

// HandlePeriodic runs the scheduler's per-tick work (spec.md section
// 4.3): advertise the whole table on every enabled interface (and an
// interface-down notice for every disabled one), then age out any
// route that hasn't been refreshed within Timeout.
//
// Both steps run under the engine's lock so a concurrent handle_packet
// or interface_changed call never observes a half-advertised or
// half-aged table (spec.md section 5 ordering guarantee).
func (e *Engine) HandlePeriodic() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advertiseLocked()
	e.ageLocked()
}

// advertiseLocked implements spec.md section 4.3 step 1: every enabled
// interface gets one broadcast per route in the table; every disabled
// interface additionally triggers an interface-down notice (sent, per
// broadcastInterfaceDownLocked, on every *enabled* interface — design
// note Q5 clarifies the notice must not go out on the disabled
// interface itself).
func (e *Engine) advertiseLocked() {
	e.table.Iterate(func(r table.Route) {
		e.broadcastRouteLocked(r)
	})

	n := e.ifaces.InterfaceCount()
	for i := uint32(0); i < n; i++ {
		ifc := e.ifaces.GetInterface(i)
		if ifc.Zero() || ifc.Enabled {
			continue
		}
		e.broadcastInterfaceDownLocked(table.IPToUint32(ifc.IP))
	}
}

// ageLocked implements spec.md section 4.3 step 2: any route whose
// last_updated is older than Timeout is marked garbage, broadcast once
// more (at metric Infinity, since broadcastRouteLocked checks
// IsGarbage), and removed — all within the same removal-safe Iterate
// callback, so the sweep never revisits a freed record (design note
// Q4).
func (e *Engine) ageLocked() {
	now := e.clk.Now()
	e.table.Iterate(func(r table.Route) {
		age := now - r.LastUpdated
		if age <= e.timeout.Milliseconds() {
			return
		}
		r.IsGarbage = true
		e.logger.Debug("route aged out",
			zap.Uint32("subnet", r.Subnet), zap.Int64("age_ms", age))
		e.broadcastRouteLocked(r)
		e.table.Remove(r.Subnet)
		e.metrics.RoutesAged.Increment()
	})
}

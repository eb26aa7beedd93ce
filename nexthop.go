package rip

import (
	"net"

	"github.com/jubueche/Routing-Information-Protocol/table"
)

// GetNextHop implements spec.md section 4.6: a longest-prefix-match
// lookup with no cost filtering, since garbage routes are removed
// promptly enough that every route left in the table is assumed
// reachable (table.NoRouteInterface / table.NoRouteNextHop mark a
// miss).
func (e *Engine) GetNextHop(ip net.IP) (outgoingIntf uint32, nextHopIP net.IP) {
	e.mu.Lock()
	defer e.mu.Unlock()

	intf, nh := e.table.LongestMatch(table.IPToUint32(ip))
	return intf, table.Uint32ToIP(nh)
}

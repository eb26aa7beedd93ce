package rip

import (
	"net"
	"testing"

	"github.com/jubueche/Routing-Information-Protocol/host"
	"github.com/jubueche/Routing-Information-Protocol/table"
)

// TestGetNextHopPrefersLongestMatch covers spec.md section 4.6: two
// overlapping routes resolve to the more specific one.
func TestGetNextHopPrefersLongestMatch(t *testing.T) {
	e, _, _ := newTestEngine(t, host.Interface{
		IP: ip("10.0.0.1"), Mask: net.CIDRMask(24, 32), Cost: 1, Enabled: true,
	})

	wide := table.Route{
		Subnet: table.IPToUint32(ip("192.168.0.0")), Mask: table.IPToUint32(net.IP(net.CIDRMask(16, 32)).To4()),
		NextHopIP: table.IPToUint32(ip("10.0.0.9")), OutgoingIntf: 0, Cost: 5, LearnedFrom: table.IPToUint32(ip("10.0.0.9")),
	}
	narrow := table.Route{
		Subnet: table.IPToUint32(ip("192.168.1.0")), Mask: table.IPToUint32(net.IP(net.CIDRMask(24, 32)).To4()),
		NextHopIP: table.IPToUint32(ip("10.0.0.7")), OutgoingIntf: 0, Cost: 2, LearnedFrom: table.IPToUint32(ip("10.0.0.7")),
	}
	e.Table().InsertOrUpdate(wide)
	e.Table().InsertOrUpdate(narrow)

	intf, nh := e.GetNextHop(ip("192.168.1.42"))
	if intf != narrow.OutgoingIntf || !nh.Equal(ip("10.0.0.7")) {
		t.Errorf("GetNextHop = (%d, %v), want the more specific route's (%d, 10.0.0.7)", intf, nh, narrow.OutgoingIntf)
	}
}

// TestGetNextHopNoRoute covers the no-match sentinel.
func TestGetNextHopNoRoute(t *testing.T) {
	e, _, _ := newTestEngine(t)
	intf, nh := e.GetNextHop(ip("8.8.8.8"))
	if intf != table.NoRouteInterface {
		t.Errorf("interface = %d, want NoRouteInterface", intf)
	}
	if !nh.Equal(table.Uint32ToIP(table.NoRouteNextHop)) {
		t.Errorf("next hop = %v, want the no-route sentinel", nh)
	}
}

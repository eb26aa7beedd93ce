package rip

import (
	"net"
	"testing"

	"github.com/jubueche/Routing-Information-Protocol/host"
	"github.com/jubueche/Routing-Information-Protocol/table"
)

// TestInterfaceBroughtUpSeedsOriginRoute covers spec.md section 4.5's
// enable branch: bringing an interface up inserts and broadcasts a
// fresh origin route for its subnet.
func TestInterfaceBroughtUpSeedsOriginRoute(t *testing.T) {
	e, fake, _ := newTestEngine(t, host.Interface{
		IP: ip("10.0.0.1"), Mask: net.CIDRMask(24, 32), Cost: 1, Enabled: false,
	})
	subnet := table.IPToUint32(ip("10.0.0.0"))
	if _, ok := e.Table().FindBySubnet(subnet); ok {
		t.Fatal("precondition: disabled interface must not seed an origin route")
	}

	fake.SetInterface(0, host.Interface{IP: ip("10.0.0.1"), Mask: net.CIDRMask(24, 32), Cost: 1, Enabled: true})
	e.InterfaceChanged(0, true, false)

	r, ok := e.Table().FindBySubnet(subnet)
	if !ok {
		t.Fatal("expected an origin route after bring-up")
	}
	if r.Cost != 1 || !r.Origin() {
		t.Errorf("got %+v, want an origin route at cost 1", r)
	}
	if len(fake.Sent) == 0 {
		t.Error("expected a broadcast on bring-up")
	}
}

// TestInterfaceBroughtDownPurgesDependentRoutes covers spec.md section
// 4.5's disable branch: every route that depended on the interface is
// removed and an interface-down notice is sent. Notices only go out on
// enabled interfaces, so a second, still-enabled interface carries it.
func TestInterfaceBroughtDownPurgesDependentRoutes(t *testing.T) {
	e, fake, _ := newTestEngine(t, host.Interface{
		IP: ip("10.0.0.1"), Mask: net.CIDRMask(24, 32), Cost: 1, Enabled: true,
	}, host.Interface{
		IP: ip("10.0.1.1"), Mask: net.CIDRMask(24, 32), Cost: 1, Enabled: true,
	})
	subnet := table.IPToUint32(ip("10.0.0.0"))
	if _, ok := e.Table().FindBySubnet(subnet); !ok {
		t.Fatal("precondition: origin route should exist")
	}
	fake.DrainSent()

	fake.SetInterface(0, host.Interface{IP: ip("10.0.0.1"), Mask: net.CIDRMask(24, 32), Cost: 1, Enabled: false})
	e.InterfaceChanged(0, true, false)

	if _, ok := e.Table().FindBySubnet(subnet); ok {
		t.Error("route via the now-down interface should have been removed")
	}
	if len(fake.DrainSent()) == 0 {
		t.Error("expected an interface-down notice to be sent")
	}
}

// TestInterfaceCostChangePurgesAndReseeds covers spec.md section 4.5's
// cost-changed branch, and scenario S4: lowering an interface's cost
// drops routes learned over the old cost and reinstalls the origin
// route at the new cost.
func TestInterfaceCostChangePurgesAndReseeds(t *testing.T) {
	e, fake, _ := newTestEngine(t, host.Interface{
		IP: ip("10.0.0.1"), Mask: net.CIDRMask(24, 32), Cost: 5, Enabled: true,
	})
	subnet := table.IPToUint32(ip("10.0.0.0"))
	fake.DrainSent()

	fake.SetInterface(0, host.Interface{IP: ip("10.0.0.1"), Mask: net.CIDRMask(24, 32), Cost: 1, Enabled: true})
	e.InterfaceChanged(0, false, true)

	r, ok := e.Table().FindBySubnet(subnet)
	if !ok {
		t.Fatal("expected the origin route to be reinstalled")
	}
	if r.Cost != 1 {
		t.Errorf("cost = %d, want 1 after reducing interface cost", r.Cost)
	}
	if len(fake.DrainSent()) == 0 {
		t.Error("expected broadcasts for both the purge and the reseed")
	}
}

// TestInterfaceChangedNoOpWhenNothingChanged covers the "otherwise: do
// nothing" fallthrough.
func TestInterfaceChangedNoOpWhenNothingChanged(t *testing.T) {
	e, fake, _ := newTestEngine(t, host.Interface{
		IP: ip("10.0.0.1"), Mask: net.CIDRMask(24, 32), Cost: 1, Enabled: true,
	})
	fake.DrainSent()

	e.InterfaceChanged(0, false, false)

	if len(fake.DrainSent()) != 0 {
		t.Error("expected no broadcast when neither state nor cost changed")
	}
}

// TestInterfaceChangedInvalidIndexIgnored covers the defensive guard
// against an out-of-range interface index.
func TestInterfaceChangedInvalidIndexIgnored(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.InterfaceChanged(99, true, false) // must not panic
	if e.Table().Len() != 0 {
		t.Error("an invalid interface index must not mutate the table")
	}
}

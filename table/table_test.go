package table

import (
	"net"
	"testing"
)

func cidr(s string) (uint32, uint32) {
	ip, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return IPToUint32(ip.Mask(ipnet.Mask)), MaskToUint32(ipnet.Mask)
}

func TestInsertOrUpdateNewKey(t *testing.T) {
	tb := New()
	subnet, mask := cidr("10.0.0.0/24")
	isNew := tb.InsertOrUpdate(Route{Subnet: subnet, Mask: mask, Cost: 1})
	if !isNew {
		t.Error("expected first insert to report a new key")
	}
	if tb.Len() != 1 {
		t.Errorf("expected 1 route, got %d", tb.Len())
	}
}

func TestInsertOrUpdateOverwrites(t *testing.T) {
	tb := New()
	subnet, mask := cidr("10.0.0.0/24")
	tb.InsertOrUpdate(Route{Subnet: subnet, Mask: mask, Cost: 1})
	isNew := tb.InsertOrUpdate(Route{Subnet: subnet, Mask: mask, Cost: 5})
	if isNew {
		t.Error("expected second insert of the same subnet to not be new")
	}
	r, ok := tb.FindBySubnet(subnet)
	if !ok || r.Cost != 5 {
		t.Errorf("expected overwritten cost 5, got %+v ok=%v", r, ok)
	}
	if tb.Len() != 1 {
		t.Errorf("expected still 1 route (no duplicate key), got %d", tb.Len())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	tb := New()
	subnet, mask := cidr("10.0.0.0/24")
	tb.InsertOrUpdate(Route{Subnet: subnet, Mask: mask})
	tb.Remove(subnet)
	tb.Remove(subnet) // must not panic
	if tb.Len() != 0 {
		t.Errorf("expected 0 routes after remove, got %d", tb.Len())
	}
}

func TestLongestMatchPrefersMoreSpecific(t *testing.T) {
	tb := New()
	s1, m1 := cidr("10.0.0.0/8")
	s2, m2 := cidr("10.0.1.0/24")
	tb.InsertOrUpdate(Route{Subnet: s1, Mask: m1, OutgoingIntf: 1, NextHopIP: 0})
	tb.InsertOrUpdate(Route{Subnet: s2, Mask: m2, OutgoingIntf: 2, NextHopIP: 0})

	ip := IPToUint32(net.ParseIP("10.0.1.5"))
	intf, nh := tb.LongestMatch(ip)
	if intf != 2 {
		t.Errorf("expected the /24 (interface 2) to win over the /8, got interface %d nh %d", intf, nh)
	}
}

func TestLongestMatchNoMatch(t *testing.T) {
	tb := New()
	s, m := cidr("10.0.0.0/24")
	tb.InsertOrUpdate(Route{Subnet: s, Mask: m, OutgoingIntf: 1})

	ip := IPToUint32(net.ParseIP("192.168.1.1"))
	intf, nh := tb.LongestMatch(ip)
	if intf != NoRouteInterface || nh != NoRouteNextHop {
		t.Errorf("expected no-route sentinel, got intf=%d nh=%#x", intf, nh)
	}
}

func TestIterateRemovalSafe(t *testing.T) {
	tb := New()
	for i := 0; i < 5; i++ {
		s, m := cidr("10.0.0.0/24")
		s += uint32(i) << 8
		tb.InsertOrUpdate(Route{Subnet: s, Mask: m, Cost: uint32(i + 1)})
	}
	visited := 0
	tb.Iterate(func(r Route) {
		visited++
		tb.Remove(r.Subnet) // remove the currently-yielded record mid-sweep
	})
	if visited != 5 {
		t.Errorf("expected to visit all 5 records exactly once, visited %d", visited)
	}
	if tb.Len() != 0 {
		t.Errorf("expected table empty after removing every record during iteration, got %d left", tb.Len())
	}
}

func TestUpdateMutatesInPlace(t *testing.T) {
	tb := New()
	s, m := cidr("10.0.0.0/24")
	tb.InsertOrUpdate(Route{Subnet: s, Mask: m, LastUpdated: 10})
	found := tb.Update(s, func(r *Route) {
		r.LastUpdated = 20
	})
	if !found {
		t.Fatal("expected Update to find the record")
	}
	r, _ := tb.FindBySubnet(s)
	if r.LastUpdated != 20 {
		t.Errorf("expected LastUpdated 20, got %d", r.LastUpdated)
	}
}

func TestMaskLen(t *testing.T) {
	cases := []struct {
		mask string
		want int
	}{
		{"255.255.255.0", 24},
		{"255.0.0.0", 8},
		{"255.255.255.255", 32},
		{"0.0.0.0", 0},
	}
	for _, c := range cases {
		m := MaskToUint32(net.IPMask(net.ParseIP(c.mask).To4()))
		if got := maskLen(m); got != c.want {
			t.Errorf("maskLen(%s) = %d, want %d", c.mask, got, c.want)
		}
	}
}

package rip

import (
	"go.uber.org/zap"

	"github.com/jubueche/Routing-Information-Protocol/host"
	"github.com/jubueche/Routing-Information-Protocol/table"
	"github.com/jubueche/Routing-Information-Protocol/wire"
)

// HandlePacket decodes one arriving RIP datagram and applies spec.md
// section 4.4's six ingest rules, in order, under the engine's lock.
// srcIP is the sending neighbor; arrivalIntf is unused by the ingest
// rules (none of A-F key off the arrival interface — only off the
// advertised subnet/next-hop — but it is accepted to match spec.md
// section 6's handle_packet(src_ip, intf, buf, len) signature).
//
// RFC 2453 section 3.9.2 ("The Request Message") and section 4
// describe REQUEST/RESPONSE processing in general; this engine (spec.md
// section 4.2) accepts REQUEST but ignores it, so only RESPONSE
// datagrams reach the rule pipeline below.
func (e *Engine) HandlePacket(srcIP, arrivalIntf uint32, buf []byte) {
	msg, err := wire.Decode(buf)
	if err != nil {
		e.mu.Lock()
		e.metrics.PacketsDropped.Increment()
		e.mu.Unlock()
		e.logger.Debug("dropped malformed packet", zap.Error(err), zap.Uint32("from", srcIP))
		return
	}
	if msg.Header.Command != wire.CommandResponse {
		// REQUEST is accepted but ignored (spec.md section 4.2).
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyAdvertisementLocked(srcIP, arrivalIntf, msg.Entry)
}

func (e *Engine) applyAdvertisementLocked(u, arrivalIntf uint32, entry wire.Entry) {
	v := entry.IP
	cUV := entry.Metric
	maskV := entry.SubnetMask

	// Rule A: split-horizon-with-poison-reverse. If the advertiser
	// learned this route from one of our own interfaces, it is being
	// handed back to us — accept it only as poison.
	if e.learnedFromLocalInterfaceLocked(entry.LearnedFrom) {
		cUV = Infinity
	}

	// Rule B: interface-down notice. entry.ip == entry.next_hop is the
	// distinguished sentinel a neighbor uses to announce that its
	// interface with IP v has gone down.
	if entry.IP == entry.NextHop {
		e.handleInterfaceDownNoticeLocked(v)
		return
	}

	vIsLocal := e.isLocalInterfaceIPLocked(v)

	// Rule C: locate here->u, refreshing it if it exists or
	// synthesizing it (as a direct route) if u is reachable over one
	// of our subnets and v is not one of our own interfaces.
	hereUIntf, hereUCost, hereUOK := e.locateOrSynthesizeHereULocked(u, vIsLocal)

	// Rule D: locate here->v. If it exists, refresh it; if it is a
	// dead route we only know via u (next hop u, now unreachable),
	// poison it, broadcast, remove, and stop.
	hereV, hereVExists := e.table.FindBySubnet(v)
	if hereVExists {
		e.table.Update(v, func(r *table.Route) { r.LastUpdated = e.clk.Now() })
		hereV.LastUpdated = e.clk.Now()
		if hereV.NextHopIP == u && cUV > 15 {
			hereV.IsGarbage = true
			e.table.Update(v, func(r *table.Route) { r.IsGarbage = true })
			e.triggeredLocked(hereV)
			e.table.Remove(v)
			return
		}
	}

	if vIsLocal || !hereUOK {
		return
	}

	if !hereVExists {
		// Rule E: new destination.
		cost := hereUCost + cUV
		if cost > 15 {
			return
		}
		r := table.Route{
			Subnet:       v,
			Mask:         maskV,
			NextHopIP:    u,
			OutgoingIntf: hereUIntf,
			Cost:         cost,
			LearnedFrom:  u,
			LastUpdated:  e.clk.Now(),
			IsGarbage:    false,
		}
		e.table.InsertOrUpdate(r)
		e.metrics.RoutesLearned.Increment()
		e.triggeredLocked(r)
		return
	}

	// Rule F: Bellman-Ford relaxation. Strict '>' only: an equal-cost
	// alternative never displaces the route already in place (spec.md
	// section 4.4, "Tie-breaking"; scenario S6).
	candidate := hereUCost + cUV
	if hereV.Cost > candidate {
		hereV.Cost = candidate
		hereV.OutgoingIntf = hereUIntf
		hereV.NextHopIP = u
		hereV.Mask = e.localInterfaceMaskLocked(hereUIntf)
		hereV.LearnedFrom = u
		e.table.InsertOrUpdate(hereV)
		e.triggeredLocked(hereV)
	}
}

// learnedFromLocalInterfaceLocked reports whether ip equals any local
// interface's own IP.
func (e *Engine) learnedFromLocalInterfaceLocked(ip uint32) bool {
	if ip == 0 {
		return false
	}
	return e.isLocalInterfaceIPLocked(ip)
}

// isLocalInterfaceIPLocked reports whether ip is the IP of one of our
// own interfaces (any state).
func (e *Engine) isLocalInterfaceIPLocked(ip uint32) bool {
	n := e.ifaces.InterfaceCount()
	for i := uint32(0); i < n; i++ {
		ifc := e.ifaces.GetInterface(i)
		if ifc.Zero() {
			continue
		}
		if table.IPToUint32(ifc.IP) == ip {
			return true
		}
	}
	return false
}

// findLocalInterfaceForSubnetLocked returns the first enabled local
// interface whose subnet contains ip, tested with that interface's own
// mask (matching the original implementation's subnet-membership test
// in dr_api.c's safe_dr_handle_packet).
func (e *Engine) findLocalInterfaceForSubnetLocked(ip uint32) (uint32, host.Interface, bool) {
	n := e.ifaces.InterfaceCount()
	for i := uint32(0); i < n; i++ {
		ifc := e.ifaces.GetInterface(i)
		if ifc.Zero() || !ifc.Enabled {
			continue
		}
		mask := table.MaskToUint32(ifc.Mask)
		if (ip & mask) == (table.IPToUint32(ifc.IP) & mask) {
			return i, ifc, true
		}
	}
	return 0, host.Interface{}, false
}

// localInterfaceMaskLocked returns interface idx's mask as a uint32,
// for rule F's "mask := mask_of_here_u" step (spec.md section 4.4;
// mirrors the original's here_v->mask = here_u->mask assignment).
func (e *Engine) localInterfaceMaskLocked(idx uint32) uint32 {
	ifc := e.ifaces.GetInterface(idx)
	return table.MaskToUint32(ifc.Mask)
}

// locateOrSynthesizeHereULocked implements rule C. If a route with
// subnet == u already exists, its timestamp is refreshed and the
// interface that reaches u is rediscovered directly (rather than
// trusted from the stored record, mirroring the original's defensive
// re-derivation). If no such route exists and v is not one of our own
// interfaces, a fresh origin route for u is synthesized and broadcast,
// provided the owning interface's cost is within range.
func (e *Engine) locateOrSynthesizeHereULocked(u uint32, vIsLocal bool) (intf uint32, cost uint32, ok bool) {
	if r, exists := e.table.FindBySubnet(u); exists {
		e.table.Update(u, func(rt *table.Route) { rt.LastUpdated = e.clk.Now() })
		idx, _, found := e.findLocalInterfaceForSubnetLocked(u)
		if !found {
			// The route exists but no currently-enabled interface
			// serves its subnet anymore; fall back to the route's own
			// stored interface so a transient host-adapter hiccup
			// doesn't stall an otherwise-healthy relax/insert.
			return r.OutgoingIntf, r.Cost, true
		}
		return idx, r.Cost, true
	}

	if vIsLocal {
		return 0, 0, false
	}

	idx, ifc, found := e.findLocalInterfaceForSubnetLocked(u)
	if !found {
		return 0, 0, false
	}
	if ifc.Cost > 15 {
		return 0, 0, false
	}
	r := table.Route{
		Subnet:       u,
		Mask:         table.MaskToUint32(ifc.Mask),
		NextHopIP:    0,
		OutgoingIntf: idx,
		Cost:         ifc.Cost,
		LearnedFrom:  0,
		LastUpdated:  e.clk.Now(),
		IsGarbage:    false,
	}
	e.table.InsertOrUpdate(r)
	e.metrics.RoutesLearned.Increment()
	e.triggeredLocked(r)
	return idx, ifc.Cost, true
}

// handleInterfaceDownNoticeLocked implements rule B: a neighbor has
// told us its interface with IP v has gone down. Every route whose
// next hop or subnet is v is poisoned, broadcast, and removed, and an
// interface-down notice for v is relayed onward.
func (e *Engine) handleInterfaceDownNoticeLocked(v uint32) {
	var dead []table.Route
	e.table.Iterate(func(r table.Route) {
		if r.NextHopIP == v || r.Subnet == v {
			dead = append(dead, r)
		}
	})
	for _, r := range dead {
		r.Cost = Infinity
		r.IsGarbage = true
		e.triggeredLocked(r)
		e.metrics.TriggeredBroadcasts.Increment()
		e.broadcastInterfaceDownLocked(v)
		e.table.Remove(r.Subnet)
	}
}

package rip

import (
	"github.com/jubueche/Routing-Information-Protocol/table"
)

// InterfaceChanged implements spec.md section 4.5: the host calls this
// whenever an interface's enabled state or cost changes, so the table
// stays consistent with the link state the host just observed rather
// than waiting for the next aging sweep.
func (e *Engine) InterfaceChanged(intf uint32, stateChanged, costChanged bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ifc := e.ifaces.GetInterface(intf)
	if ifc.Zero() {
		return
	}

	switch {
	case stateChanged && ifc.Enabled:
		e.insertOriginLocked(intf, ifc)
		r, _ := e.table.FindBySubnet(table.IPToUint32(ifc.Subnet()))
		e.triggeredLocked(r)

	case stateChanged && !ifc.Enabled:
		e.metrics.TriggeredBroadcasts.Increment()
		e.broadcastInterfaceDownLocked(table.IPToUint32(ifc.IP))
		e.purgeRoutesViaInterfaceLocked(intf)

	case costChanged:
		e.purgeRoutesViaInterfaceLocked(intf)
		e.insertOriginLocked(intf, ifc)
		r, _ := e.table.FindBySubnet(table.IPToUint32(ifc.Subnet()))
		e.triggeredLocked(r)
	}
}

// purgeRoutesViaInterfaceLocked marks garbage, broadcasts (at metric
// Infinity, via broadcastRouteLocked's IsGarbage check), and removes
// every route whose outgoing interface is intf. Used by both the
// interface-down and cost-changed branches of InterfaceChanged.
func (e *Engine) purgeRoutesViaInterfaceLocked(intf uint32) {
	var dead []table.Route
	e.table.Iterate(func(r table.Route) {
		if r.OutgoingIntf == intf {
			dead = append(dead, r)
		}
	})
	for _, r := range dead {
		r.IsGarbage = true
		e.triggeredLocked(r)
		e.table.Remove(r.Subnet)
	}
}

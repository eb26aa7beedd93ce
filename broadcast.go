package rip

import (
	"go.uber.org/zap"

	"github.com/jubueche/Routing-Information-Protocol/host"
	"github.com/jubueche/Routing-Information-Protocol/table"
	"github.com/jubueche/Routing-Information-Protocol/wire"
)

// broadcastRouteLocked sends a single-entry RESPONSE for r on every
// currently enabled interface. The wire metric is Infinity if r is
// garbage, else r.Cost (spec.md section 4.3: "metric = if r.is_garbage
// then 16 else r.cost"). Grounded on the original C's
// broadcast_single_entry, which builds one packet per enabled
// interface rather than building the payload once and fanning it out
// — this keeps that per-interface construction even though the
// payload bytes are identical across interfaces, matching the
// original's call graph for the send_payload destination/outgoing_intf
// pairing.
func (e *Engine) broadcastRouteLocked(r table.Route) {
	metric := r.Cost
	if r.IsGarbage {
		metric = Infinity
	}
	msg := wire.Message{
		Header: wire.Header{Command: wire.CommandResponse, Version: wire.Version},
		Entry: wire.Entry{
			IP:          r.Subnet,
			SubnetMask:  r.Mask,
			NextHop:     r.NextHopIP,
			Metric:      metric,
			LearnedFrom: r.LearnedFrom,
		},
	}
	payload := wire.Encode(msg)

	n := e.ifaces.InterfaceCount()
	for i := uint32(0); i < n; i++ {
		ifc := e.ifaces.GetInterface(i)
		if ifc.Zero() || !ifc.Enabled {
			continue
		}
		e.sendLocked(i, payload)
	}
}

// broadcastInterfaceDownLocked sends an interface-down notice for
// intfIP on every currently enabled interface: an entry whose IP and
// NextHop both equal intfIP (spec.md section 4.2's distinguished
// sentinel, detected on receive by rule B).
func (e *Engine) broadcastInterfaceDownLocked(intfIP uint32) {
	msg := wire.Message{
		Header: wire.Header{Command: wire.CommandResponse, Version: wire.Version},
		Entry: wire.Entry{
			IP:      intfIP,
			NextHop: intfIP,
		},
	}
	payload := wire.Encode(msg)

	n := e.ifaces.InterfaceCount()
	for i := uint32(0); i < n; i++ {
		ifc := e.ifaces.GetInterface(i)
		if ifc.Zero() || !ifc.Enabled {
			continue
		}
		e.sendLocked(i, payload)
	}
}

// sendLocked sends payload out interface idx to the RIP multicast
// group. Host callback failures are not propagated (spec.md section
// 7: "Host callback returning failure for send_payload: ignored; the
// next periodic tick will retry") — only logged.
func (e *Engine) sendLocked(idx uint32, payload []byte) {
	if err := e.xport.SendPayload(host.RIPMulticastAddr, host.RIPMulticastAddr, idx, payload); err != nil {
		e.logger.Debug("send_payload failed, will retry next tick",
			zap.Uint32("interface", idx), zap.Error(err))
	}
}

// triggeredLocked is broadcastRouteLocked plus the TriggeredBroadcasts
// counter, for the out-of-schedule broadcasts spec.md's ingest rules
// (C, E, F) and interface-change handler emit between periodic ticks
// (property P6).
func (e *Engine) triggeredLocked(r table.Route) {
	e.metrics.TriggeredBroadcasts.Increment()
	e.broadcastRouteLocked(r)
}

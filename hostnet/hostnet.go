// Package hostnet implements host.InterfaceProvider over the standard
// library's net.Interfaces, for platforms where pulling in netlinkhost's
// rtnetlink dependency isn't warranted — a dev box, a test VM, or any
// non-Linux host. Adapted from the teacher's network.FindBGPIdentifier
// (network/network.go), which walked net.Interfaces() once to pick a
// single identifier; this package instead keeps a stable, indexable
// snapshot of every IPv4-addressed interface for the engine to query
// repeatedly.
package hostnet

import (
	"net"
	"sync"

	"github.com/jubueche/Routing-Information-Protocol/host"
)

// Snapshot is a host.InterfaceProvider backed by a point-in-time read
// of the machine's network interfaces. It does not itself watch for
// changes — call Refresh (or construct a new Snapshot) and then call
// Engine.InterfaceChanged for any index whose state or cost differs
// from before.
type Snapshot struct {
	mu   sync.RWMutex
	ifs  []host.Interface
	cost uint32
}

// DefaultCost is the metric applied to every interface discovered by
// this provider, absent any host-specific policy for differentiating
// interface cost (spec.md's origin-route cost; this provider has no
// equivalent of a per-interface administrative weight, so all
// interfaces are equally weighted).
const DefaultCost uint32 = 1

// New builds a Snapshot of the host's current IPv4 interfaces. Only
// interfaces with a global-unicast IPv4 address are included — loopback
// and link-local interfaces are not useful RIP origins.
func New() (*Snapshot, error) {
	s := &Snapshot{cost: DefaultCost}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh re-reads the host's interfaces, replacing the snapshot. Index
// assignment is stable only insofar as net.Interfaces() returns entries
// in a consistent order between calls, which is true on a host whose
// interface set hasn't changed; callers that add/remove interfaces at
// runtime should compare old and new snapshots themselves and drive
// Engine.InterfaceChanged accordingly.
func (s *Snapshot) Refresh() error {
	raw, err := net.Interfaces()
	if err != nil {
		return &host.NetworkError{Operation: "list interfaces", Err: err}
	}

	var ifs []host.Interface
	for _, iface := range raw {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ip, ipNet, err := net.ParseCIDR(a.String())
			if err != nil {
				continue
			}
			v4 := ip.To4()
			if v4 == nil || !ip.IsGlobalUnicast() {
				continue
			}
			ifs = append(ifs, host.Interface{
				IP:      v4,
				Mask:    ipNet.Mask,
				Cost:    s.cost,
				Enabled: iface.Flags&net.FlagUp != 0,
			})
			break
		}
	}

	s.mu.Lock()
	s.ifs = ifs
	s.mu.Unlock()
	return nil
}

// InterfaceCount implements host.InterfaceProvider.
func (s *Snapshot) InterfaceCount() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint32(len(s.ifs))
}

// GetInterface implements host.InterfaceProvider.
func (s *Snapshot) GetInterface(index uint32) host.Interface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index >= uint32(len(s.ifs)) {
		return host.Interface{}
	}
	return s.ifs[index]
}

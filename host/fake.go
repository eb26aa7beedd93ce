package host

import (
	"net"
	"sync"
)

// Fake is an in-process InterfaceProvider and Transport used by the
// engine's own tests. It records every payload sent so tests can
// assert on triggered updates (P6) without a real socket.
type Fake struct {
	mu      sync.Mutex
	ifs     []Interface
	Sent    []SentPayload
	SendErr error
}

// SentPayload captures one call to SendPayload.
type SentPayload struct {
	DstIP, NextHopIP net.IP
	OutgoingIntf     uint32
	Payload          []byte
}

// NewFake creates a Fake with the given initial interfaces.
func NewFake(ifs ...Interface) *Fake {
	return &Fake{ifs: ifs}
}

// InterfaceCount implements InterfaceProvider.
func (f *Fake) InterfaceCount() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint32(len(f.ifs))
}

// GetInterface implements InterfaceProvider.
func (f *Fake) GetInterface(index uint32) Interface {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index >= uint32(len(f.ifs)) {
		return Interface{}
	}
	return f.ifs[index]
}

// SetInterface replaces interface index's state, growing the slice if
// needed. Used by tests to simulate bring-up/bring-down/cost-change.
func (f *Fake) SetInterface(index uint32, i Interface) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for uint32(len(f.ifs)) <= index {
		f.ifs = append(f.ifs, Interface{})
	}
	f.ifs[index] = i
}

// SendPayload implements Transport.
func (f *Fake) SendPayload(dstIP, nextHopIP net.IP, outgoingIntf uint32, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	f.Sent = append(f.Sent, SentPayload{dstIP, nextHopIP, outgoingIntf, cp})
	return f.SendErr
}

// DrainSent returns and clears everything sent so far.
func (f *Fake) DrainSent() []SentPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	sent := f.Sent
	f.Sent = nil
	return sent
}

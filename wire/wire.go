// Package wire implements the RIPv2 response payload codec: a 4-byte
// header followed by exactly one 24-byte entry (the standard 20-byte
// RIP entry plus a 4-byte learned_from extension).
//
// RFC 2453 section 4 describes the standard RIP packet format as a
// 4-octet header followed by up to 25 20-octet route entries. This
// engine's wire format (spec.md section 4.2) keeps the RFC's header and
// entry layouts byte-for-byte but — a deliberate, documented departure
// from stock RIP (design note Q1) — encodes and decodes exactly one
// entry per datagram, and adds a non-standard 4-octet learned_from
// extension to each entry that carries split-horizon-with-poison-reverse
// state out of band (design note Q6) instead of computing it per
// outgoing interface at the sender.
package wire

import (
	"encoding/binary"
	"errors"
)

// Command identifies a RIP message's direction.
type Command byte

const (
	// CommandRequest asks the receiver for its routing table. This
	// engine accepts REQUEST datagrams but ignores them (spec.md
	// section 4.2): it never originates or answers one.
	CommandRequest Command = 1
	// CommandResponse carries one route entry. This is the only
	// command this engine ever sends.
	CommandResponse Command = 2
)

// Version is the RIP version this codec implements.
const Version byte = 2

// AddrFamilyIPv4 is the address family this engine writes on every
// entry it sends (spec.md non-goals: "multi-address-family payloads
// other than IPv4" is out of scope). Decode does not check the field.
const AddrFamilyIPv4 uint16 = 1

const (
	headerLen = 4
	// entryLen is the standard 20-byte RIP entry plus the 4-byte
	// learned_from extension (design note Q6): 24 bytes total.
	entryLen = 24
)

// Sentinel decode errors, checked with errors.Is. A too-short buffer and
// a wrong version each get their own sentinel so callers (and tests)
// can distinguish "dropped because too short" from "dropped because
// wrong version" without parsing error strings. Address family is not
// validated, so it has no sentinel.
var (
	ErrShort   = errors.New("wire: buffer shorter than header+entry")
	ErrVersion = errors.New("wire: unsupported RIP version")
)

// Header is the 4-byte RIP payload header.
type Header struct {
	Command Command
	Version byte
}

// Entry is one 24-byte route entry: the standard 20-byte RIP entry plus
// the learned_from extension.
type Entry struct {
	// IP is the destination subnet, or, in an interface-down notice,
	// the failed interface's own IP (spec.md section 4.2/4.4 rule B).
	IP uint32
	// SubnetMask is the mask of IP.
	SubnetMask uint32
	// NextHop is the advertised next hop; zero means "use sender". In
	// an interface-down notice this equals IP (the distinguished
	// sentinel rule B detects).
	NextHop uint32
	// Metric is the route cost, 1..=15 reachable, 16 unreachable.
	Metric uint32
	// LearnedFrom carries the neighbor IP the advertiser itself
	// learned this route from (the non-standard extension, design
	// note Q6), used by the receiver to apply split-horizon-with-
	// poison-reverse (rule A).
	LearnedFrom uint32
}

// Message is a decoded header+entry pair, the unit this codec works in.
type Message struct {
	Header Header
	Entry  Entry
}

// Encode serializes a Message into its 28-byte wire form: the 4-byte
// header (pad left zero) followed by one 24-byte entry. All multi-byte fields are
// network byte order (spec.md section 4.2/6).
func Encode(m Message) []byte {
	buf := make([]byte, headerLen+entryLen)
	buf[0] = byte(m.Header.Command)
	buf[1] = m.Header.Version
	// buf[2:4] is the header's pad field, left zero on send.

	e := buf[headerLen:]
	binary.BigEndian.PutUint16(e[0:2], AddrFamilyIPv4)
	// e[2:4] is the entry's pad field, left zero on send.
	binary.BigEndian.PutUint32(e[4:8], m.Entry.IP)
	binary.BigEndian.PutUint32(e[8:12], m.Entry.SubnetMask)
	binary.BigEndian.PutUint32(e[12:16], m.Entry.NextHop)
	binary.BigEndian.PutUint32(e[16:20], m.Entry.Metric)
	binary.BigEndian.PutUint32(e[20:24], m.Entry.LearnedFrom)
	return buf
}

// Decode parses a header and its first entry out of buf. Trailing
// entries beyond the first, if any, are ignored (spec.md section 4.2,
// design note Q1). Malformed input — too short, or an unsupported
// version — is reported as one of the sentinel errors above; address
// family is intentionally not validated on receive (spec.md: "Ignored
// on receive for this engine"), matching the wire format's own note
// that the field exists only for interop, not for this engine's
// decode path.
func Decode(buf []byte) (Message, error) {
	if len(buf) < headerLen+entryLen {
		return Message{}, ErrShort
	}
	h := Header{
		Command: Command(buf[0]),
		Version: buf[1],
	}
	if h.Version != Version {
		return Message{}, ErrVersion
	}

	e := buf[headerLen : headerLen+entryLen]
	entry := Entry{
		IP:          binary.BigEndian.Uint32(e[4:8]),
		SubnetMask:  binary.BigEndian.Uint32(e[8:12]),
		NextHop:     binary.BigEndian.Uint32(e[12:16]),
		Metric:      binary.BigEndian.Uint32(e[16:20]),
		LearnedFrom: binary.BigEndian.Uint32(e[20:24]),
	}
	return Message{Header: h, Entry: entry}, nil
}

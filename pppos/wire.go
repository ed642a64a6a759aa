package pppos

// ProtocolType is the 16-bit PPP protocol field carried right after framing
// (address/control stripped, see RFC 1661 §2).
type ProtocolType uint16

const (
	ProtocolUnknown ProtocolType = 0
	ProtocolLCP     ProtocolType = 0xc021
	ProtocolPAP     ProtocolType = 0xc023
	ProtocolIPv4    ProtocolType = 0x0021
	ProtocolIPv4CP  ProtocolType = 0x8021
)

func (p ProtocolType) String() string {
	switch p {
	case ProtocolLCP:
		return "LCP"
	case ProtocolPAP:
		return "PAP"
	case ProtocolIPv4:
		return "IPv4"
	case ProtocolIPv4CP:
		return "IPv4CP"
	default:
		return "Unknown"
	}
}

func protocolTypeFromUint16(v uint16) ProtocolType {
	switch ProtocolType(v) {
	case ProtocolLCP, ProtocolPAP, ProtocolIPv4, ProtocolIPv4CP:
		return ProtocolType(v)
	default:
		return ProtocolUnknown
	}
}

// Code is a PPP control packet type (RFC 1661 §5).
type Code uint8

const (
	CodeUnknown       Code = 0
	CodeConfigureReq  Code = 1
	CodeConfigureAck  Code = 2
	CodeConfigureNack Code = 3
	CodeConfigureRej  Code = 4
	CodeTerminateReq  Code = 5
	CodeTerminateAck  Code = 6
	CodeCodeRej       Code = 7
	CodeProtocolRej   Code = 8
	CodeEchoReq       Code = 9
	CodeEchoReply     Code = 10
	CodeDiscardReq    Code = 11
)

func codeFromByte(b byte) Code {
	switch Code(b) {
	case CodeConfigureReq, CodeConfigureAck, CodeConfigureNack, CodeConfigureRej,
		CodeTerminateReq, CodeTerminateAck, CodeCodeRej, CodeProtocolRej,
		CodeEchoReq, CodeEchoReply, CodeDiscardReq:
		return Code(b)
	default:
		return CodeUnknown
	}
}

// maxOptions and maxOptionLen are implementation bounds (spec §3), not
// protocol limits: exceeding either is a programmer error.
const (
	maxOptions    = 6
	maxOptionLen  = 4
	pktHeaderSize = 4 // code(1) + id(1) + length(2)
)

// optionVal is a single TLV option: code, and up to maxOptionLen bytes of
// data. bufferLen = 2 + len(data); emit is [code, 2+len, data...].
type optionVal struct {
	code uint8
	data [maxOptionLen]byte
	n    int // len(data), <= maxOptionLen
}

func newOptionVal(code uint8, data []byte) optionVal {
	if len(data) > maxOptionLen {
		panic("pppos: option data exceeds maxOptionLen")
	}
	var o optionVal
	o.code = code
	o.n = copy(o.data[:], data)
	return o
}

func (o optionVal) bytes() []byte { return o.data[:o.n] }

func (o optionVal) bufferLen() int { return 2 + o.n }

func (o optionVal) emit(buf []byte) {
	buf[0] = o.code
	buf[1] = byte(o.n + 2)
	copy(buf[2:], o.bytes())
}

// options is an ordered, bounded list of option values, emitted in
// insertion order.
type options struct {
	list [maxOptions]optionVal
	n    int
}

func (o *options) push(v optionVal) {
	if o.n >= maxOptions {
		panic("pppos: too many options")
	}
	o.list[o.n] = v
	o.n++
}

func (o *options) reset() { o.n = 0 }

func (o *options) slice() []optionVal { return o.list[:o.n] }

func (o options) bufferLen() int {
	total := 0
	for _, v := range o.slice() {
		total += v.bufferLen()
	}
	return total
}

func (o options) emit(buf []byte) {
	for _, v := range o.slice() {
		l := v.bufferLen()
		v.emit(buf[:l])
		buf = buf[l:]
	}
}

// pppPayloadKind tags the body of a PPP control packet.
type pppPayloadKind int

const (
	pppPayloadRaw pppPayloadKind = iota
	pppPayloadPAP
	pppPayloadOptions
)

// pppPayload is the body of a Payload.PPP variant: either a raw byte
// blob (Terminate-Ack, Protocol-Reject, Echo data), a PAP credential
// pair, or an option list.
type pppPayload struct {
	kind    pppPayloadKind
	raw     []byte
	user    []byte
	pass    []byte
	options options
}

func rawPayload(b []byte) pppPayload { return pppPayload{kind: pppPayloadRaw, raw: b} }

func papPayload(user, pass []byte) pppPayload {
	return pppPayload{kind: pppPayloadPAP, user: user, pass: pass}
}

func optionsPayload(o options) pppPayload { return pppPayload{kind: pppPayloadOptions, options: o} }

func (p pppPayload) bufferLen() int {
	switch p.kind {
	case pppPayloadRaw:
		return len(p.raw)
	case pppPayloadPAP:
		return 1 + len(p.user) + 1 + len(p.pass)
	case pppPayloadOptions:
		return p.options.bufferLen()
	default:
		panic("pppos: unknown pppPayload kind")
	}
}

func (p pppPayload) emit(buf []byte) {
	switch p.kind {
	case pppPayloadRaw:
		copy(buf, p.raw)
	case pppPayloadPAP:
		buf[0] = byte(len(p.user))
		n := copy(buf[1:], p.user)
		buf[1+n] = byte(len(p.pass))
		copy(buf[1+n+1:], p.pass)
	case pppPayloadOptions:
		p.options.emit(buf)
	default:
		panic("pppos: unknown pppPayload kind")
	}
}

// payloadKind tags the two shapes a Packet's payload can take.
type payloadKind int

const (
	payloadRaw payloadKind = iota
	payloadPPP
)

// payload is the body of an outbound Packet: either an already-framed PPP
// control payload (starting at the Code byte), or a {code, id, body}
// triple whose header this package synthesizes.
type payload struct {
	kind payloadKind
	raw  []byte

	code Code
	id   uint8
	body pppPayload
}

func rawPacketPayload(b []byte) payload { return payload{kind: payloadRaw, raw: b} }

func pppPacketPayload(code Code, id uint8, body pppPayload) payload {
	return payload{kind: payloadPPP, code: code, id: id, body: body}
}

func (p payload) bufferLen() int {
	switch p.kind {
	case payloadRaw:
		return len(p.raw)
	case payloadPPP:
		return pktHeaderSize + p.body.bufferLen()
	default:
		panic("pppos: unknown payload kind")
	}
}

func (p payload) emit(buf []byte) {
	switch p.kind {
	case payloadRaw:
		copy(buf, p.raw)
	case payloadPPP:
		buf[0] = byte(p.code)
		buf[1] = p.id
		length := uint16(p.body.bufferLen() + pktHeaderSize)
		buf[2] = byte(length >> 8)
		buf[3] = byte(length)
		p.body.emit(buf[pktHeaderSize:])
	default:
		panic("pppos: unknown payload kind")
	}
}

// packet is a logical outbound unit tagged with its ProtocolType.
type packet struct {
	proto   ProtocolType
	payload payload
}

func (p packet) bufferLen() int { return 2 + p.payload.bufferLen() }

func (p packet) emit(buf []byte) {
	buf[0] = byte(uint16(p.proto) >> 8)
	buf[1] = byte(uint16(p.proto))
	p.payload.emit(buf[2:])
}

package pppos

import "log"

// verdictKind is the disposition a capability gives a single peer-offered
// option during Configure-Request processing.
type verdictKind int

const (
	verdictAck verdictKind = iota
	verdictNack
	verdictRej
)

// verdict is the result of evaluating one peer option: accept it, nack it
// with replacement data, or reject it outright.
type verdict struct {
	kind verdictKind
	data []byte
}

func ackVerdict() verdict             { return verdict{kind: verdictAck} }
func nackVerdict(data []byte) verdict { return verdict{kind: verdictNack, data: data} }
func rejVerdict() verdict             { return verdict{kind: verdictRej} }

// capability is the per-protocol hook the generic Configure-Request FSM
// defers to: LCP and IPv4CP each implement it with their own option set.
type capability interface {
	protocol() ProtocolType

	// ownOptions calls f once per option this side wants to propose in
	// its own Configure-Request.
	ownOptions(f func(code uint8, data []byte))
	// ownOptionNacked is called once per option the peer nacked or
	// rejected in response to our Configure-Request.
	ownOptionNacked(code uint8, data []byte, isRej bool)

	// peerOptionsStart resets any per-negotiation-round accumulator
	// before the peer's options are walked.
	peerOptionsStart()
	// peerOptionReceived evaluates one option the peer offered.
	peerOptionReceived(code uint8, data []byte) verdict
}

// optionState is the Configure-Request negotiation state (RFC 1661 §4.1,
// restricted to the subset this implementation needs: no Restart timers,
// no Terminate retry count).
type optionState int

const (
	optClosed optionState = iota
	optReqSent
	optAckReceived
	optAckSent
	optOpened
)

func (s optionState) String() string {
	switch s {
	case optClosed:
		return "Closed"
	case optReqSent:
		return "ReqSent"
	case optAckReceived:
		return "AckReceived"
	case optAckSent:
		return "AckSent"
	case optOpened:
		return "Opened"
	default:
		return "?"
	}
}

// optionFSM drives one capability (LCP or IPv4CP) through Configure-
// Request/Ack/Nack/Reject negotiation.
type optionFSM struct {
	id    uint8
	state optionState
	cap   capability
}

func newOptionFSM(c capability) *optionFSM {
	return &optionFSM{id: 1, state: optClosed, cap: c}
}

func (f *optionFSM) currentState() optionState { return f.state }

// open transitions Closed -> ReqSent and returns the first
// Configure-Request to send. Panics if called outside Closed, matching
// the Rust original's assert.
func (f *optionFSM) open() packet {
	if f.state != optClosed {
		panic("pppos: open() called while not Closed")
	}
	f.state = optReqSent
	return f.sendConfigureRequest()
}

func (f *optionFSM) close() { f.state = optClosed }

func (f *optionFSM) nextID() uint8 {
	f.id++
	return f.id
}

func (f *optionFSM) sendConfigureRequest() packet {
	var opts options
	f.cap.ownOptions(func(code uint8, data []byte) {
		opts.push(newOptionVal(code, data))
	})
	return packet{
		proto:   f.cap.protocol(),
		payload: pppPacketPayload(CodeConfigureReq, f.nextID(), optionsPayload(opts)),
	}
}

func (f *optionFSM) sendTerminateAck(id uint8) packet {
	return packet{
		proto:   f.cap.protocol(),
		payload: pppPacketPayload(CodeTerminateAck, id, rawPayload(nil)),
	}
}

// sendEchoResponse flips the code byte of a received Echo-Request to
// Echo-Reply in place and returns it as the reply payload.
func (f *optionFSM) sendEchoResponse(pkt []byte) packet {
	pkt[2] = byte(CodeEchoReply)
	return packet{
		proto:   f.cap.protocol(),
		payload: rawPacketPayload(pkt[2:]),
	}
}

// sendProtocolReject wraps an unrecognized incoming packet (protocol
// field included) as the info field of an LCP Protocol-Reject.
func (f *optionFSM) sendProtocolReject(pkt []byte) packet {
	return packet{
		proto:   f.cap.protocol(),
		payload: pppPacketPayload(CodeProtocolRej, f.nextID(), rawPayload(pkt)),
	}
}

func (f *optionFSM) receivedConfigureReq(pkt []byte) packet {
	id := pkt[3]
	code := CodeConfigureAck

	body := pkt[6:]
	var opts options

	f.cap.peerOptionsStart()
	err := parseOptions(body, func(ocode uint8, odata []byte) {
		v := f.cap.peerOptionReceived(ocode, odata)

		var retCode Code
		var data []byte
		switch v.kind {
		case verdictAck:
			retCode, data = CodeConfigureAck, odata
		case verdictNack:
			retCode, data = CodeConfigureNack, v.data
		case verdictRej:
			retCode, data = CodeConfigureRej, odata
		}

		if code < retCode {
			code = retCode
			opts.reset()
		}
		if code == retCode {
			opts.push(newOptionVal(ocode, data))
		}
	})
	if err != nil {
		log.Printf("pppos: %s: malformed Configure-Request options", f.cap.protocol())
	}

	return packet{
		proto:   f.cap.protocol(),
		payload: pppPacketPayload(code, id, optionsPayload(opts)),
	}
}

// handle processes one received packet for this capability's protocol.
// pkt starts at the 2-byte protocol field, as delivered by session.go.
func (f *optionFSM) handle(pkt []byte, tx func(packet)) {
	if len(pkt) < 6 {
		log.Printf("pppos: %s: packet too short", f.cap.protocol())
		return
	}
	code := codeFromByte(pkt[2])
	id := pkt[3]
	length := int(pkt[4])<<8 | int(pkt[5])
	if length < pktHeaderSize {
		log.Printf("pppos: %s: packet length field too short", f.cap.protocol())
		return
	}
	if length+2 > len(pkt) {
		log.Printf("pppos: %s: packet length field too long", f.cap.protocol())
		return
	}
	pkt = pkt[:length+2]

	oldState := f.state

	switch {
	case code == CodeEchoReq && f.state == optOpened:
		tx(f.sendEchoResponse(pkt))

	case code == CodeEchoReq:
		// Ignored outside Opened, including Closed.

	case code == CodeDiscardReq:
		// Silently discarded.

	case f.state == optClosed:
		tx(f.sendTerminateAck(id))

	case code == CodeConfigureReq:
		if parseOptions(pkt[6:], func(uint8, []byte) {}) != nil {
			log.Printf("pppos: %s: malformed Configure-Request options, dropping", f.cap.protocol())
			break
		}
		resp := f.receivedConfigureReq(pkt)
		acked := resp.payload.kind == payloadPPP && resp.payload.code == CodeConfigureAck
		tx(resp)

		switch {
		case !acked && f.state == optAckSent:
			f.state = optReqSent
		case !acked && f.state == optOpened:
			tx(f.sendConfigureRequest())
			f.state = optReqSent
		case !acked:
			// no state change
		case acked && f.state == optReqSent:
			f.state = optAckSent
		case acked && f.state == optAckReceived:
			f.state = optOpened
		case acked && f.state == optAckSent:
			f.state = optAckSent
		case acked && f.state == optOpened:
			tx(f.sendConfigureRequest())
			f.state = optAckSent
		}

	case code == CodeConfigureAck && f.state == optReqSent:
		f.state = optAckReceived

	case code == CodeConfigureAck && f.state == optAckSent:
		f.state = optOpened

	case code == CodeConfigureAck && (f.state == optAckReceived || f.state == optOpened):
		f.state = optReqSent
		tx(f.sendConfigureRequest())

	case code == CodeConfigureNack || code == CodeConfigureRej:
		isRej := code == CodeConfigureRej
		if len(pkt) < 6 {
			panic("pppos: too short")
		}
		body := pkt[6:]
		if parseOptions(body, func(uint8, []byte) {}) != nil {
			log.Printf("pppos: %s: malformed Configure-Nack/Reject options, dropping", f.cap.protocol())
			break
		}
		_ = parseOptions(body, func(ocode uint8, odata []byte) {
			f.cap.ownOptionNacked(ocode, odata, isRej)
		})
		if f.state != optAckSent {
			f.state = optReqSent
		}
		tx(f.sendConfigureRequest())

	case code == CodeTerminateReq && f.state == optOpened:
		f.state = optClosed
		tx(f.sendTerminateAck(id))

	case code == CodeTerminateReq && (f.state == optReqSent || f.state == optAckReceived || f.state == optAckSent):
		f.state = optReqSent
		tx(f.sendTerminateAck(id))

	default:
		log.Printf("pppos: %s: unexpected code %d in state %s, ignoring", f.cap.protocol(), code, f.state)
	}

	if oldState != f.state {
		log.Printf("pppos: %s: state %s -> %s", f.cap.protocol(), oldState, f.state)
	}
}

// parseOptions walks a Configure-Request/Ack/Nack/Rej options TLV list,
// calling f once per well-formed option. Returns errMalformed on a
// truncated or zero-length option.
func parseOptions(pkt []byte, f func(code uint8, data []byte)) error {
	for len(pkt) != 0 {
		if len(pkt) < 2 {
			return errMalformed
		}
		code := pkt[0]
		length := int(pkt[1])
		if len(pkt) < length {
			return errMalformed
		}
		if length < 2 {
			return errMalformed
		}
		data := pkt[2:length]
		f(code, data)
		pkt = pkt[length:]
	}
	return nil
}

package pppos

import "log"

// papState is PAP's authentication state (RFC 1334 §2.1), reusing the
// Configure-Request/Ack/Nack codes as Authenticate-Request/Ack/Nack: this
// implementation is always the authenticatee, never the authenticator.
type papState int

const (
	papClosed papState = iota
	papReqSent
	papOpened
)

func (s papState) String() string {
	switch s {
	case papClosed:
		return "Closed"
	case papReqSent:
		return "ReqSent"
	case papOpened:
		return "Opened"
	default:
		return "?"
	}
}

// pap authenticates against the peer with a fixed username/password
// pair supplied at construction.
type pap struct {
	state papState
	id    uint8

	username []byte
	password []byte
}

func newPAP(username, password []byte) *pap {
	if len(username) > 0xff || len(password) > 0xff {
		panic("pppos: PAP username/password too long")
	}
	return &pap{state: papClosed, id: 1, username: username, password: password}
}

func (p *pap) currentState() papState { return p.state }

func (p *pap) open() packet {
	if p.state != papClosed {
		panic("pppos: PAP open() called while not Closed")
	}
	p.state = papReqSent
	return p.sendConfigureRequest()
}

func (p *pap) close() { p.state = papClosed }

func (p *pap) nextID() uint8 {
	p.id++
	return p.id
}

func (p *pap) sendConfigureRequest() packet {
	return packet{
		proto:   ProtocolPAP,
		payload: pppPacketPayload(CodeConfigureReq, p.nextID(), papPayload(p.username, p.password)),
	}
}

func (p *pap) handle(pkt []byte, tx func(packet)) {
	if len(pkt) < 6 {
		log.Printf("pppos: PAP: packet too short")
		return
	}
	code := codeFromByte(pkt[2])
	length := int(pkt[4])<<8 | int(pkt[5])
	if length > len(pkt) {
		log.Printf("pppos: PAP: packet length field too long")
		return
	}

	oldState := p.state
	switch {
	case code == CodeConfigureAck && p.state == papReqSent:
		p.state = papOpened
	case code == CodeConfigureNack && p.state == papReqSent:
		tx(p.sendConfigureRequest())
	default:
	}

	if oldState != p.state {
		log.Printf("pppos: PAP: state %s -> %s", oldState, p.state)
	}
}

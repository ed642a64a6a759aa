package pppos

import "log"

// Phase is the top-level connection phase a session moves through on its
// way to a working IPv4 link (RFC 1661 §3.2).
type Phase int

const (
	// PhaseDead means not connected; Open() has not been called, or the
	// link has gone down.
	PhaseDead Phase = iota
	// PhaseEstablish is negotiating LCP.
	PhaseEstablish
	// PhaseAuth is authenticating via PAP.
	PhaseAuth
	// PhaseNetwork is negotiating IPv4CP.
	PhaseNetwork
	// PhaseOpen means all layers are up; IPv4 traffic can flow.
	PhaseOpen
)

func (p Phase) String() string {
	switch p {
	case PhaseDead:
		return "Dead"
	case PhaseEstablish:
		return "Establish"
	case PhaseAuth:
		return "Auth"
	case PhaseNetwork:
		return "Network"
	case PhaseOpen:
		return "Open"
	default:
		return "?"
	}
}

// Status reports the current phase and, once negotiated, the IPv4
// parameters obtained from IPv4CP.
type Status struct {
	Phase Phase
	IPv4  *Ipv4Status
}

// Config holds the credentials this session presents during PAP
// authentication.
type Config struct {
	Username []byte
	Password []byte
}

// session is the protocol engine shared by the LCP/PAP/IPv4CP state
// machines: it owns them, dispatches received packets to the right one,
// and drives the Dead -> Establish -> Auth -> Network -> Open phase
// progression.
type session struct {
	phase   Phase
	opening bool

	lcp    *optionFSM
	pap    *pap
	ipv4cp *optionFSM
}

func newSession(cfg Config) *session {
	return &session{
		phase:  PhaseDead,
		lcp:    newOptionFSM(newLCP()),
		pap:    newPAP(cfg.Username, cfg.Password),
		ipv4cp: newOptionFSM(newIPv4CP()),
	}
}

func (s *session) status() Status {
	st := Status{Phase: s.phase}
	if s.ipv4cp.currentState() == optOpened {
		ipv4 := s.ipv4cp.cap.(*ipv4cp).status()
		st.IPv4 = &ipv4
	}
	return st
}

// open transitions Dead -> Establish. Returns ErrInvalidState unless the
// session is currently Dead.
func (s *session) open() error {
	if s.phase != PhaseDead {
		return ErrInvalidState
	}
	s.phase = PhaseEstablish
	s.opening = true
	return nil
}

// received dispatches one decoded PPP payload (protocol field + body) to
// the matching sub-protocol handler.
func (s *session) received(pkt []byte, tx func(packet)) {
	proto := protocolTypeFromUint16(uint16(pkt[0])<<8 | uint16(pkt[1]))

	switch proto {
	case ProtocolLCP:
		s.lcp.handle(pkt, tx)
	case ProtocolPAP:
		s.pap.handle(pkt, tx)
	case ProtocolIPv4:
		// Handled by the PPPoS facade before reaching here.
	case ProtocolIPv4CP:
		s.ipv4cp.handle(pkt, tx)
	default:
		tx(s.lcp.sendProtocolReject(pkt))
	}
}

// poll advances the phase state machine, emitting whatever control
// packets the current transition requires.
func (s *session) poll(tx func(packet)) {
	oldPhase := s.phase

	switch s.phase {
	case PhaseDead:

	case PhaseEstablish:
		if s.lcp.currentState() == optClosed {
			tx(s.lcp.open())
			s.opening = false
		}

		if s.lcp.currentState() == optOpened {
			switch s.lcp.cap.(*lcp).auth {
			case AuthNone:
				tx(s.ipv4cp.open())
				s.phase = PhaseNetwork
			case AuthPAP:
				tx(s.pap.open())
				s.phase = PhaseAuth
			}
		} else {
			if s.pap.currentState() != papClosed {
				s.pap.close()
			}
			if s.ipv4cp.currentState() != optClosed {
				s.ipv4cp.close()
			}
		}

	case PhaseAuth:
		if s.pap.currentState() == papOpened {
			s.phase = PhaseNetwork
			tx(s.ipv4cp.open())
		} else {
			if s.ipv4cp.currentState() != optClosed {
				s.ipv4cp.close()
			}
		}

	case PhaseNetwork:
		if s.ipv4cp.currentState() == optOpened {
			s.phase = PhaseOpen
		}

	case PhaseOpen:
	}

	if s.lcp.currentState() == optClosed && !s.opening {
		s.phase = PhaseDead
	}

	if oldPhase != s.phase {
		log.Printf("pppos: link phase %s -> %s", oldPhase, s.phase)
	}
}

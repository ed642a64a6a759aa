package pppos

import "testing"

func TestSessionOpenRequiresDead(t *testing.T) {
	s := newSession(Config{})
	if err := s.open(); err != nil {
		t.Fatalf("open() from Dead: %v", err)
	}
	if s.phase != PhaseEstablish {
		t.Fatalf("phase = %v, want Establish", s.phase)
	}
	if err := s.open(); err != ErrInvalidState {
		t.Fatalf("second open() = %v, want ErrInvalidState", err)
	}
}

func TestSessionEstablishSendsLCPConfigureRequest(t *testing.T) {
	s := newSession(Config{})
	s.open()

	var sent []packet
	s.poll(func(p packet) { sent = append(sent, p) })

	if len(sent) != 1 || sent[0].proto != ProtocolLCP || sent[0].payload.code != CodeConfigureReq {
		t.Fatalf("poll() after open sent %+v, want one LCP ConfigureReq", sent)
	}
}

func TestSessionGoesToNetworkWithoutAuth(t *testing.T) {
	s := newSession(Config{})
	s.open()
	s.poll(func(packet) {})

	// Peer acks our LCP request with no Auth option negotiated.
	ack := []byte{0xc0, 0x21, byte(CodeConfigureAck), s.lcp.id, 0x00, 0x04}
	s.received(ack, func(packet) {})
	if s.lcp.currentState() != optAckReceived {
		t.Fatalf("lcp state = %v, want AckReceived", s.lcp.currentState())
	}

	// Peer also sends its own empty Configure-Request, which we ack.
	var sent []packet
	req := []byte{0xc0, 0x21, byte(CodeConfigureReq), 0x01, 0x00, 0x04}
	s.received(req, func(p packet) { sent = append(sent, p) })
	if s.lcp.currentState() != optOpened {
		t.Fatalf("lcp state = %v, want Opened", s.lcp.currentState())
	}

	s.poll(func(p packet) { sent = append(sent, p) })
	if s.phase != PhaseNetwork {
		t.Fatalf("phase = %v, want Network", s.phase)
	}

	foundIPv4CPReq := false
	for _, p := range sent {
		if p.proto == ProtocolIPv4CP && p.payload.code == CodeConfigureReq {
			foundIPv4CPReq = true
		}
	}
	if !foundIPv4CPReq {
		t.Fatalf("expected an IPv4CP ConfigureReq after LCP opened, got %+v", sent)
	}
}

func TestSessionDropsBackToDeadWhenLCPCloses(t *testing.T) {
	s := newSession(Config{})
	s.open()
	s.poll(func(packet) {})
	s.opening = false // simulate the latch having already cleared

	s.lcp.close()
	s.phase = PhaseNetwork // pretend we'd gotten further
	s.poll(func(packet) {})

	if s.phase != PhaseDead {
		t.Fatalf("phase = %v, want Dead once LCP is Closed and not opening", s.phase)
	}
}

func TestSessionUnknownProtocolGetsProtocolReject(t *testing.T) {
	s := newSession(Config{})

	var sent []packet
	pkt := []byte{0x12, 0x34, 0xaa, 0xbb} // unknown protocol, arbitrary trailing bytes
	s.received(pkt, func(p packet) { sent = append(sent, p) })

	if len(sent) != 1 || sent[0].payload.code != CodeProtocolRej {
		t.Fatalf("received(unknown proto) sent %+v, want one ProtocolRej", sent)
	}
}

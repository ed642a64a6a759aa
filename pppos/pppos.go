// Package pppos implements the Point-to-Point Protocol (RFC 1661) over
// an asynchronous serial link (RFC 1662), commonly called PPPoS.
//
// It performs no I/O and spawns no goroutines: callers own all buffers
// and drive the protocol by feeding it bytes read from the serial link
// (Consume), periodically giving it a chance to produce output (Poll),
// and handing it outbound IPv4 packets to encode (Send). A single
// session handles exactly one point-to-point link; there is no
// multilink support.
package pppos

// Action describes what the caller must do after a call to Poll.
type Action int

const (
	// ActionNone means nothing to do.
	ActionNone Action = iota
	// ActionReceived means an IPv4 packet was decoded into the slice
	// returned alongside this action; hand it to higher layers.
	ActionReceived
	// ActionTransmit means Poll wrote n bytes of framed data into txBuf;
	// transmit txBuf[:n] over the serial link.
	ActionTransmit
)

// PPPoS drives one PPP-over-serial link. The zero value is not usable;
// construct with New.
type PPPoS struct {
	frameReader *frameReader
	rxBuf       []byte
	session     *session
}

// New creates a PPPoS session in PhaseDead. rxBuf is retained for the
// lifetime of the session and must be large enough to hold one decoded
// PPP frame (control byte, protocol field, code/id/length header, option
// or IP payload, and the 2-byte FCS). Call Open to start connecting.
func New(cfg Config, rxBuf []byte) *PPPoS {
	return &PPPoS{
		frameReader: newFrameReader(rxBuf),
		rxBuf:       rxBuf,
		session:     newSession(cfg),
	}
}

// Status reports the current connection phase and any IPv4 parameters
// negotiated so far.
func (p *PPPoS) Status() Status { return p.session.status() }

// Open starts the connection sequence. Returns ErrInvalidState if the
// session is not currently Dead.
func (p *PPPoS) Open() error { return p.session.open() }

// Consume feeds bytes read from the serial link into the frame
// assembler. It returns how many bytes of data were consumed; if less
// than len(data), a complete frame is now pending and Poll must be
// called (to drain it) before Consume can make further progress.
func (p *PPPoS) Consume(data []byte) int {
	return p.frameReader.consume(data)
}

// PollResult is the outcome of a Poll call.
type PollResult struct {
	Action Action
	// Received is set when Action is ActionReceived: a view into rxBuf
	// holding one decoded IPv4 packet. It is only valid until the next
	// Consume call, which reuses rxBuf for the next frame.
	Received []byte
	// N is set when Action is ActionTransmit: transmit txBuf[:N].
	N int
}

// Poll processes any frame Consume has assembled, advances the
// negotiation state machines, and encodes any resulting output into
// txBuf. The returned PollResult says what the caller should do next.
func (p *PPPoS) Poll(txBuf []byte) PollResult {
	w := newFrameWriter(txBuf, defaultAsyncmap)

	tx := func(pkt packet) {
		// Sized for the worst case: a PAP Authenticate-Request carrying
		// two 255-byte credentials (proto(2) + header(4) + 1 + 255 + 1 + 255).
		var buf [518]byte
		n := pkt.bufferLen()
		if n > len(buf) {
			panic("pppos: outgoing control packet too large")
		}
		pkt.emit(buf[:n])

		if err := w.start(); err != nil {
			return
		}
		if err := w.append(buf[:n]); err != nil {
			return
		}
		_ = w.finish()
	}

	if frame := p.frameReader.receive(); frame != nil {
		proto := protocolTypeFromUint16(uint16(frame[0])<<8 | uint16(frame[1]))
		if proto == ProtocolIPv4 {
			return PollResult{Action: ActionReceived, Received: frame[2:]}
		}
		p.session.received(frame, tx)
	}

	p.session.poll(tx)

	n := len(w.get())
	if n == 0 {
		return PollResult{Action: ActionNone}
	}
	return PollResult{Action: ActionTransmit, N: n}
}

// Send encodes an outbound IPv4 packet into txBuf, using the peer's
// negotiated asynchronous control character map. Returns the number of
// bytes written, or ErrBufferFull if txBuf is too small.
func (p *PPPoS) Send(pkt []byte, txBuf []byte) (int, error) {
	w := newFrameWriter(txBuf, p.session.lcp.cap.(*lcp).asyncmapRemote)

	if err := w.start(); err != nil {
		return 0, err
	}
	proto := uint16(ProtocolIPv4)
	if err := w.append([]byte{byte(proto >> 8), byte(proto)}); err != nil {
		return 0, err
	}
	if err := w.append(pkt); err != nil {
		return 0, err
	}
	if err := w.finish(); err != nil {
		return 0, err
	}
	return len(w.get()), nil
}

package pppos

// lcpOption is an LCP Configure-Request option code (RFC 1661 §6).
type lcpOption uint8

const (
	lcpOptionUnknown  lcpOption = 0
	lcpOptionAsyncmap lcpOption = 2
	lcpOptionAuth     lcpOption = 3
)

func lcpOptionFromCode(code uint8) lcpOption {
	switch lcpOption(code) {
	case lcpOptionAsyncmap, lcpOptionAuth:
		return lcpOption(code)
	default:
		return lcpOptionUnknown
	}
}

// AuthType is the authentication protocol negotiated by LCP's Auth
// option.
type AuthType int

const (
	AuthNone AuthType = iota
	AuthPAP
)

// lcp is the LCP capability: link-level options (async control character
// map, authentication protocol selection). It never proposes Auth itself
// (this implementation is always the authenticatee): it accepts a peer
// proposal of PAP and nacks any other authentication protocol with PAP.
type lcp struct {
	auth AuthType

	asyncmapRemote uint32
	asyncmap       uint32
	asyncmapRej    bool
}

func newLCP() *lcp {
	return &lcp{
		auth:           AuthNone,
		asyncmapRemote: 0xffffffff,
		asyncmap:       0,
	}
}

func (l *lcp) protocol() ProtocolType { return ProtocolLCP }

func (l *lcp) peerOptionsStart() { l.auth = AuthNone }

func (l *lcp) peerOptionReceived(code uint8, data []byte) verdict {
	switch lcpOptionFromCode(code) {
	case lcpOptionUnknown:
		return rejVerdict()
	case lcpOptionAsyncmap:
		if len(data) != 4 {
			return rejVerdict()
		}
		l.asyncmapRemote = uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
		return ackVerdict()
	case lcpOptionAuth:
		if len(data) == 2 && data[0] == 0xc0 && data[1] == 0x23 {
			l.auth = AuthPAP
			return ackVerdict()
		}
		return nackVerdict([]byte{0xc0, 0x23})
	default:
		return rejVerdict()
	}
}

func (l *lcp) ownOptions(f func(code uint8, data []byte)) {
	if !l.asyncmapRej {
		var buf [4]byte
		buf[0] = byte(l.asyncmap >> 24)
		buf[1] = byte(l.asyncmap >> 16)
		buf[2] = byte(l.asyncmap >> 8)
		buf[3] = byte(l.asyncmap)
		f(uint8(lcpOptionAsyncmap), buf[:])
	}
}

func (l *lcp) ownOptionNacked(code uint8, data []byte, isRej bool) {
	switch lcpOptionFromCode(code) {
	case lcpOptionAsyncmap:
		if !isRej && len(data) == 4 {
			l.asyncmap = uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
		} else {
			l.asyncmapRej = true
		}
	default:
	}
}

package pppos

// ipv4OptionCode is an IPv4CP Configure-Request option code (RFC 1332).
type ipv4OptionCode uint8

const (
	ipv4OptionUnknown   ipv4OptionCode = 0
	ipv4OptionIPAddress ipv4OptionCode = 3
	ipv4OptionDNS1      ipv4OptionCode = 129
	ipv4OptionDNS2      ipv4OptionCode = 131
)

func ipv4OptionFromCode(code uint8) ipv4OptionCode {
	switch ipv4OptionCode(code) {
	case ipv4OptionIPAddress, ipv4OptionDNS1, ipv4OptionDNS2:
		return ipv4OptionCode(code)
	default:
		return ipv4OptionUnknown
	}
}

// v4 is a 4-byte IPv4 address as carried on the wire. Kept as a fixed
// array rather than net.IP to match the exact 4-byte width of the
// options this codec emits and parses, with no 4-vs-16-byte ambiguity.
type v4 [4]byte

func (a v4) isUnspecified() bool { return a == v4{} }

// ipOption tracks one negotiated IPv4CP address-carrying option (our own
// address, or a DNS server address the peer supplies).
type ipOption struct {
	address    v4
	isRejected bool
}

// get returns the negotiated address, or ok=false if the option was
// rejected by the peer or never set.
func (o ipOption) get() (v4, bool) {
	if o.isRejected || o.address.isUnspecified() {
		return v4{}, false
	}
	return o.address, true
}

func (o *ipOption) nacked(data []byte, isRej bool) {
	if isRej {
		o.isRejected = true
		return
	}
	if len(data) == 4 {
		copy(o.address[:], data)
	} else {
		// Peer's suggested replacement is malformed; reject to avoid an
		// endless Nack loop.
		o.isRejected = true
	}
}

// Ipv4Status reports what IPv4CP has negotiated so far.
type Ipv4Status struct {
	Address     *[4]byte
	PeerAddress *[4]byte
	DNSServers  [2]*[4]byte
}

// ipv4cp is the IPv4CP capability: negotiates the local IPv4 address and
// up to two DNS server addresses, and learns the peer's address.
type ipv4cp struct {
	peerAddress v4

	address    ipOption
	dnsServer1 ipOption
	dnsServer2 ipOption
}

func newIPv4CP() *ipv4cp { return &ipv4cp{} }

func (c *ipv4cp) status() Ipv4Status {
	var st Ipv4Status
	if !c.peerAddress.isUnspecified() {
		addr := [4]byte(c.peerAddress)
		st.PeerAddress = &addr
	}
	if a, ok := c.address.get(); ok {
		addr := [4]byte(a)
		st.Address = &addr
	}
	if a, ok := c.dnsServer1.get(); ok {
		addr := [4]byte(a)
		st.DNSServers[0] = &addr
	}
	if a, ok := c.dnsServer2.get(); ok {
		addr := [4]byte(a)
		st.DNSServers[1] = &addr
	}
	return st
}

func (c *ipv4cp) protocol() ProtocolType { return ProtocolIPv4CP }

func (c *ipv4cp) peerOptionsStart() {}

func (c *ipv4cp) peerOptionReceived(code uint8, data []byte) verdict {
	switch ipv4OptionFromCode(code) {
	case ipv4OptionIPAddress:
		if len(data) != 4 {
			return rejVerdict()
		}
		copy(c.peerAddress[:], data)
		return ackVerdict()
	default:
		return rejVerdict()
	}
}

func (c *ipv4cp) ownOptions(f func(code uint8, data []byte)) {
	if !c.address.isRejected {
		f(uint8(ipv4OptionIPAddress), c.address.address[:])
	}
	if !c.dnsServer1.isRejected {
		f(uint8(ipv4OptionDNS1), c.dnsServer1.address[:])
	}
	if !c.dnsServer2.isRejected {
		f(uint8(ipv4OptionDNS2), c.dnsServer2.address[:])
	}
}

func (c *ipv4cp) ownOptionNacked(code uint8, data []byte, isRej bool) {
	switch ipv4OptionFromCode(code) {
	case ipv4OptionUnknown:
	case ipv4OptionIPAddress:
		c.address.nacked(data, isRej)
	case ipv4OptionDNS1:
		c.dnsServer1.nacked(data, isRej)
	case ipv4OptionDNS2:
		c.dnsServer2.nacked(data, isRej)
	}
}

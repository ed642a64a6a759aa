package pppos

import "testing"

func TestIPv4CPAcceptsPeerAddress(t *testing.T) {
	c := newIPv4CP()
	v := c.peerOptionReceived(uint8(ipv4OptionIPAddress), []byte{10, 0, 0, 1})
	if v.kind != verdictAck {
		t.Fatalf("verdict = %v, want Ack", v.kind)
	}
	if c.peerAddress != (v4{10, 0, 0, 1}) {
		t.Fatalf("peerAddress = %v, want 10.0.0.1", c.peerAddress)
	}
}

func TestIPv4CPRejectsMalformedAddress(t *testing.T) {
	c := newIPv4CP()
	if v := c.peerOptionReceived(uint8(ipv4OptionIPAddress), []byte{10, 0}); v.kind != verdictRej {
		t.Fatalf("verdict = %v, want Rej", v.kind)
	}
}

func TestIPv4CPRejectsPeerDNSOption(t *testing.T) {
	c := newIPv4CP()
	if v := c.peerOptionReceived(uint8(ipv4OptionDNS1), []byte{8, 8, 8, 8}); v.kind != verdictRej {
		t.Fatalf("verdict = %v, want Rej (we never accept a peer-proposed DNS option)", v.kind)
	}
}

func TestIPv4CPOwnOptionNackedSetsAddress(t *testing.T) {
	c := newIPv4CP()
	c.ownOptionNacked(uint8(ipv4OptionIPAddress), []byte{192, 168, 1, 1}, false)
	addr, ok := c.address.get()
	if !ok || addr != (v4{192, 168, 1, 1}) {
		t.Fatalf("address = %v, ok=%v, want 192.168.1.1", addr, ok)
	}
}

func TestIPv4CPOwnOptionRejectedStopsOffering(t *testing.T) {
	c := newIPv4CP()
	c.ownOptionNacked(uint8(ipv4OptionDNS1), nil, true)

	var seen []uint8
	c.ownOptions(func(code uint8, data []byte) { seen = append(seen, code) })
	for _, code := range seen {
		if ipv4OptionCode(code) == ipv4OptionDNS1 {
			t.Fatalf("ownOptions() still offers DNS1 after rejection")
		}
	}
}

func TestIPv4CPStatusReflectsNegotiation(t *testing.T) {
	c := newIPv4CP()
	c.peerOptionReceived(uint8(ipv4OptionIPAddress), []byte{203, 0, 113, 1})
	c.ownOptionNacked(uint8(ipv4OptionIPAddress), []byte{203, 0, 113, 2}, false)

	st := c.status()
	if st.PeerAddress == nil || *st.PeerAddress != ([4]byte{203, 0, 113, 1}) {
		t.Fatalf("status().PeerAddress = %v, want 203.0.113.1", st.PeerAddress)
	}
	if st.Address == nil || *st.Address != ([4]byte{203, 0, 113, 2}) {
		t.Fatalf("status().Address = %v, want 203.0.113.2", st.Address)
	}
}

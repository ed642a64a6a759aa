package main

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// icmpEcho turns an inbound IPv4 packet into an ICMP echo reply if it is
// an echo request addressed anywhere, swapping source and destination.
// It reports ok=false for anything it doesn't recognize, which the
// caller simply drops.
func icmpEcho(in []byte) (out []byte, ok bool) {
	pkt := gopacket.NewPacket(in, layers.LayerTypeIPv4, gopacket.NoCopy)

	ipLayer, ok := pkt.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	if ipLayer == nil {
		return nil, false
	}

	icmpLayer, ok := pkt.Layer(layers.LayerTypeICMPv4).(*layers.ICMPv4)
	if icmpLayer == nil {
		return nil, false
	}
	if icmpLayer.TypeCode.Type() != layers.ICMPv4TypeEchoRequest {
		return nil, false
	}

	replyIP := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolICMPv4,
		SrcIP:    ipLayer.DstIP,
		DstIP:    ipLayer.SrcIP,
	}
	replyICMP := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoReply, 0),
		Id:       icmpLayer.Id,
		Seq:      icmpLayer.Seq,
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	payload := gopacket.Payload(icmpLayer.Payload)
	if err := gopacket.SerializeLayers(buf, opts, replyIP, replyICMP, payload); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

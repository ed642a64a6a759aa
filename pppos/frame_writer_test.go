package pppos

import (
	"bytes"
	"testing"
)

func TestFrameWriterRoundTripsThroughFrameReader(t *testing.T) {
	body := []byte{0xc0, 0x21, 0x09, 0x01, 0x00, 0x04} // LCP Echo-Request, no data

	txBuf := make([]byte, 64)
	w := newFrameWriter(txBuf, defaultAsyncmap)
	if err := w.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w.append(body); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	frame := w.get()

	if frame[0] != flagByte || frame[len(frame)-1] != flagByte {
		t.Fatalf("frame not flag-delimited: % x", frame)
	}

	rxBuf := make([]byte, 64)
	r := newFrameReader(rxBuf)
	n := r.consume(frame)
	if n != len(frame) {
		t.Fatalf("consume() = %d, want %d", n, len(frame))
	}

	got := r.receive()
	if got == nil {
		t.Fatal("receive() returned nil, want a decoded frame")
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("receive() = % x, want % x", got, body)
	}
}

func TestFrameWriterBufferFull(t *testing.T) {
	w := newFrameWriter(make([]byte, 4), defaultAsyncmap)
	if err := w.start(); err != nil {
		t.Fatalf("start() on a buffer sized to fit it: %v", err)
	}
	if err := w.append([]byte{0xc0, 0x21, 0x01, 0x01, 0x00, 0x04}); err != ErrBufferFull {
		t.Fatalf("append() = %v, want ErrBufferFull", err)
	}
}

func TestFrameWriterEscapesControlBytes(t *testing.T) {
	w := newFrameWriter(make([]byte, 64), defaultAsyncmap)
	_ = w.start()
	if err := w.append([]byte{0x7e, 0x7d, 0x01}); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = w.finish()
	frame := w.get()

	// Neither raw flag nor escape byte may appear unescaped in the body.
	body := frame[1 : len(frame)-1]
	for i := 0; i < len(body); i++ {
		if body[i] == flagByte {
			t.Fatalf("unescaped flag byte inside frame: % x", frame)
		}
		if body[i] == escapeByte {
			i++ // the following byte is the escaped (xor 0x20) payload
		}
	}
}

func TestFrameWriterAsyncmapZeroLeavesControlBytesLiteral(t *testing.T) {
	w := newFrameWriter(make([]byte, 64), 0)
	if err := w.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// None of these are 0x7d/0x7e, and with asyncmap 0 no 0x00-0x1f byte
	// is escaped either, so they must appear verbatim.
	body := []byte{0x00, 0x01, 0x1f, 0x41}
	if err := w.append(body); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	frame := w.get()

	// flag, address, and the control byte (0x03, itself <= 0x1f) all go
	// unescaped with asyncmap 0.
	const prefixLen = 3
	got := frame[prefixLen : prefixLen+len(body)]
	if !bytes.Equal(got, body) {
		t.Fatalf("frame body = % x, want control bytes literal % x", got, body)
	}
}

func TestFrameWriterDefaultAsyncmapEscapesControlBytes(t *testing.T) {
	w := newFrameWriter(make([]byte, 64), defaultAsyncmap)
	if err := w.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	body := []byte{0x00, 0x01, 0x1f}
	if err := w.append(body); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	frame := w.get()

	// flag, address, then the escaped control byte (0x7d, 0x03^0x20).
	const prefixLen = 4
	got := frame[prefixLen : prefixLen+2*len(body)]
	want := []byte{0x7d, 0x00 ^ 0x20, 0x7d, 0x01 ^ 0x20, 0x7d, 0x1f ^ 0x20}
	if !bytes.Equal(got, want) {
		t.Fatalf("escaped body = % x, want % x", got, want)
	}
}

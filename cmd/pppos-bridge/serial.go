package main

import "github.com/pkg/term"

// serialPort is the minimal read/write/close surface pppos-bridge needs
// from a transport; openSerial satisfies it with a real TTY, and tests
// can satisfy it with an in-memory pipe.
type serialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// openSerial opens device in raw mode at baud and returns it ready for
// PPPoS framing to read/write directly.
func openSerial(device string, baud int) (serialPort, error) {
	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, err
	}
	if baud != 0 {
		if err := t.SetSpeed(baud); err != nil {
			t.Close()
			return nil, err
		}
	}
	return t, nil
}

package pppos

import "github.com/pkg/errors"

// ErrInvalidState is returned by Open when the session is not in the Dead
// phase.
var ErrInvalidState = errors.New("pppos: invalid state")

// ErrBufferFull is returned by Send (and by the frame writer internally)
// when the caller-supplied transmit buffer is too small for the frame
// being encoded.
var ErrBufferFull = errors.New("pppos: buffer full")

// errMalformed is what parseOptions returns for a truncated or
// zero-length option. It is never returned to a caller: frames with a bad
// CRC are dropped silently, and control packets with an out-of-range
// length field or malformed options are logged and dropped.
var errMalformed = errors.New("pppos: malformed frame")

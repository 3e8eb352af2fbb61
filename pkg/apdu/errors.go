package apdu

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the codec, per the error taxonomy.
var (
	ErrMalformedFrame     = errors.New("apdu: malformed frame")
	ErrTruncated          = errors.New("apdu: truncated body")
	ErrUnsupportedVersion = errors.New("apdu: unsupported protocol version")
)

// ErrInsufficientData is returned by the Parser when a read would run past
// the end of its backing slice.
var ErrInsufficientData = errors.New("apdu: insufficient data")

// UnexpectedApduError reports a received APDU of a type the caller wasn't
// prepared to handle at that point in the exchange. Expected is the zero
// Choice when Got simply isn't one of the six outer choices §3 defines
// (Parse's own check), rather than a specific choice the caller wanted.
type UnexpectedApduError struct {
	Got      Choice
	Expected Choice
}

func (e *UnexpectedApduError) Error() string {
	if e.Expected == 0 {
		return fmt.Sprintf("apdu: unrecognized outer choice 0x%04x", uint16(e.Got))
	}
	return fmt.Sprintf("apdu: unexpected choice %s, expected %s", e.Got, e.Expected)
}

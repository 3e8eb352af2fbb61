package assoc

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the caller's cancellation signal fires
// between I/O turns (§5). The SM enters Disassociating and attempts an
// orderly RLRQ/RLRE before returning this error.
var ErrCancelled = errors.New("assoc: cancelled")

// AssociationRejectedError reports an AARE carrying a rejected-permanent
// or rejected-transient result (§4.3).
type AssociationRejectedError struct {
	Reason string // "permanent" or "transient"
}

func (e *AssociationRejectedError) Error() string {
	return fmt.Sprintf("assoc: association rejected: %s", e.Reason)
}

// UnexpectedApduError reports an APDU of a choice the SM wasn't prepared
// to handle in its current state — e.g. a PRST arriving before the
// config-notification handshake starts.
type UnexpectedApduError struct {
	Got      string
	Expected string
}

func (e *UnexpectedApduError) Error() string {
	return fmt.Sprintf("assoc: unexpected apdu %s, expected %s", e.Got, e.Expected)
}

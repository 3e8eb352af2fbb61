// Package assoc implements the PHD association state machine of
// SPEC_FULL.md §4.3: the lifecycle that takes a session from
// Unassociated through Operating to an orderly close, driving the frame
// transport and APDU codec underneath it. It generalizes the teacher's
// pkg/master session lifecycle (sendAndWait, one-pending-request-at-a-time)
// down to the single-threaded cooperative loop §5/§9 mandate.
package assoc

// State is one of the five lifecycle states an Association passes
// through.
type State int

const (
	StateUnassociated State = iota
	StateAssociating
	StateOperating
	StateDisassociating
	StateTerminated
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateUnassociated:
		return "unassociated"
	case StateAssociating:
		return "associating"
	case StateOperating:
		return "operating"
	case StateDisassociating:
		return "disassociating"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

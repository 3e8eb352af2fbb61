// Package measurement implements the measurement decoder of SPEC_FULL.md
// §4.5: PM-Store readout, segment-entry parsing, SFLOAT/FLOAT decode, and
// Reading derivation. It is grounded on the teacher's pkg/app/datapoints.go
// (typed decode of wire bytes into measurement structs) and
// pkg/types/measurements.go (the Reading-shaped value type), generalized
// from DNP3 analog/binary points to IEEE 11073-20601 glucose samples.
package measurement

// Reading is one decoded glucose measurement, handed off by value to the
// external sink (§3). The core retains no reference to it after emission.
type Reading struct {
	SequenceIndex uint32  // monotonic index within the session, starting at 0
	Epoch         int64   // UNIX seconds, device wall-clock treated as UTC (§9)
	MgDl          uint16  // rounded mg/dL value
	MmolL         float32 // MgDl / 18.0
}

// mgDlPerMmolL is the exact mg/dL-per-mmol/L conversion factor (§3).
const mgDlPerMmolL = 18.0

// deriveReading builds a Reading from a decoded sample value (already
// unit-qualified by the caller), an absolute-time epoch, and the
// session-monotonic sequence index.
func deriveReading(seq uint32, epoch int64, mgDl uint16) Reading {
	return Reading{
		SequenceIndex: seq,
		Epoch:         epoch,
		MgDl:          mgDl,
		MmolL:         float32(float64(mgDl) / mgDlPerMmolL),
	}
}

package measurement

import (
	"encoding/binary"

	"accuchek/phd-go/pkg/apdu"
)

// SegmentDataEvent is the event-info payload of one SEGMENT_DATA_EVENT
// confirmed-event-report: a chunk of a segment's entries plus a final-flag
// (§4.5 — "each carries a chunk of the segment's fixed-format entries plus
// a final-flag").
type SegmentDataEvent struct {
	SegmentID  uint16
	Final      bool
	EntryCount uint16
	Entries    []byte // EntryCount entries, wire form per ParseEntries
}

// EncodeSegmentDataEvent serializes a SegmentDataEvent.
func EncodeSegmentDataEvent(e SegmentDataEvent) []byte {
	out := make([]byte, 5, 5+len(e.Entries))
	binary.BigEndian.PutUint16(out[0:2], e.SegmentID)
	if e.Final {
		out[2] = 1
	}
	binary.BigEndian.PutUint16(out[3:5], e.EntryCount)
	return append(out, e.Entries...)
}

// ParseSegmentDataEvent parses a SegmentDataEvent.
func ParseSegmentDataEvent(data []byte) (SegmentDataEvent, error) {
	p := apdu.NewParser(data)
	segID, err := p.ReadUint16()
	if err != nil {
		return SegmentDataEvent{}, ErrTruncatedEntry
	}
	finalByte, err := p.ReadBytes(1)
	if err != nil {
		return SegmentDataEvent{}, ErrTruncatedEntry
	}
	count, err := p.ReadUint16()
	if err != nil {
		return SegmentDataEvent{}, ErrTruncatedEntry
	}
	rest, err := p.ReadBytes(p.Remaining())
	if err != nil {
		return SegmentDataEvent{}, ErrTruncatedEntry
	}
	return SegmentDataEvent{SegmentID: segID, Final: finalByte[0] != 0, EntryCount: count, Entries: rest}, nil
}

// EncodeSegmentSelector serializes the TRIG_SEGMENT_DATA_XFER action
// argument's info field: the target segment-id.
func EncodeSegmentSelector(segmentID uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], segmentID)
	return b[:]
}

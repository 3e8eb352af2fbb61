package measurement

import (
	"encoding/binary"

	"accuchek/phd-go/pkg/apdu"
)

// Value-kind tags distinguishing an SFLOAT-Type sample from a
// FLOAT-Type sample in a segment entry's fixed data, per §4.5.
const (
	ValueKindSFLOAT uint8 = 0
	ValueKindFLOAT  uint8 = 1
)

// Time-presence flags in a segment entry header.
const (
	entryFlagAbsoluteTime uint8 = 1 << 0
	entryFlagRelativeTime uint8 = 1 << 1
)

// Entry is one decoded PM-Segment entry: the entry-header's time fields
// plus the fixed-segment-data's observed value and unit code (§4.5).
// AbsTime and RelTime are mutually non-exclusive on the wire (a device
// may send both); HasAbsTime gates whether a Reading can be derived.
type Entry struct {
	HasAbsTime bool
	AbsTime    []byte // 8-byte BCD, valid when HasAbsTime
	HasRelTime bool
	RelTime    uint32 // eighths-of-a-second offset from an origin

	ValueKind uint8
	RawValue  uint32 // low 16 bits used for SFLOAT, all 32 for FLOAT
	UnitCode  uint16
}

// ParseEntries decodes count fixed-format entries from the front of data,
// as concatenated by the segment-data event stream (§4.5). Each entry is:
//
//	flags:u8 | [abs-time:8 if flags&1] | [rel-time:u32 if flags&2] |
//	value-kind:u8 | value:u16-or-u32 | unit-code:u16
func ParseEntries(data []byte, count int) ([]Entry, error) {
	p := apdu.NewParser(data)
	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		flagByte, err := p.ReadBytes(1)
		if err != nil {
			return nil, ErrTruncatedEntry
		}
		e := Entry{}
		flags := flagByte[0]
		e.HasAbsTime = flags&entryFlagAbsoluteTime != 0
		e.HasRelTime = flags&entryFlagRelativeTime != 0

		if e.HasAbsTime {
			abs, err := p.ReadBytes(AbsoluteTimeLen)
			if err != nil {
				return nil, ErrTruncatedEntry
			}
			e.AbsTime = abs
		}
		if e.HasRelTime {
			rel, err := p.ReadUint32()
			if err != nil {
				return nil, ErrTruncatedEntry
			}
			e.RelTime = rel
		}

		kindByte, err := p.ReadBytes(1)
		if err != nil {
			return nil, ErrTruncatedEntry
		}
		e.ValueKind = kindByte[0]

		switch e.ValueKind {
		case ValueKindSFLOAT:
			v, err := p.ReadUint16()
			if err != nil {
				return nil, ErrTruncatedEntry
			}
			e.RawValue = uint32(v)
		case ValueKindFLOAT:
			v, err := p.ReadUint32()
			if err != nil {
				return nil, ErrTruncatedEntry
			}
			e.RawValue = v
		default:
			return nil, ErrTruncatedEntry
		}

		unit, err := p.ReadUint16()
		if err != nil {
			return nil, ErrTruncatedEntry
		}
		e.UnitCode = unit

		entries = append(entries, e)
	}
	return entries, nil
}

// EncodeEntry serializes an Entry to the wire form ParseEntries expects.
// Used by the mock-transport end-to-end scenarios to build segment-event
// payloads without hand-packing bytes at every call site.
func EncodeEntry(e Entry) []byte {
	var flags uint8
	if e.HasAbsTime {
		flags |= entryFlagAbsoluteTime
	}
	if e.HasRelTime {
		flags |= entryFlagRelativeTime
	}

	out := []byte{flags}
	if e.HasAbsTime {
		out = append(out, e.AbsTime...)
	}
	if e.HasRelTime {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], e.RelTime)
		out = append(out, b[:]...)
	}

	out = append(out, e.ValueKind)
	switch e.ValueKind {
	case ValueKindSFLOAT:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(e.RawValue))
		out = append(out, b[:]...)
	case ValueKindFLOAT:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], e.RawValue)
		out = append(out, b[:]...)
	}

	var unit [2]byte
	binary.BigEndian.PutUint16(unit[:], e.UnitCode)
	out = append(out, unit[:]...)
	return out
}

// Value decodes the entry's observed value to a float64, returning
// ErrSentinel for reserved SFLOAT/FLOAT bit patterns per §4.5 — callers
// must skip such entries, not halt the stream.
func (e Entry) Value() (float64, error) {
	switch e.ValueKind {
	case ValueKindSFLOAT:
		return DecodeSFLOAT(uint16(e.RawValue))
	default:
		return DecodeFLOAT(e.RawValue)
	}
}

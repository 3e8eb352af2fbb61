package apdu

import "encoding/binary"

// DataApdu is the inner protocol data unit carried by a PRST frame:
// invoke-id:u16 | choice:u16 | length:u16 | body[length].
type DataApdu struct {
	InvokeID uint16
	Choice   DataChoice
	Body     []byte
}

// EncodeDataApdu serializes a DataApdu to wire form.
func EncodeDataApdu(d DataApdu) []byte {
	out := make([]byte, 6, 6+len(d.Body))
	binary.BigEndian.PutUint16(out[0:2], d.InvokeID)
	binary.BigEndian.PutUint16(out[2:4], uint16(d.Choice))
	binary.BigEndian.PutUint16(out[4:6], uint16(len(d.Body)))
	out = append(out, d.Body...)
	return out
}

// ParseDataApdu parses a DataApdu from data. data must contain exactly one
// DataApdu (the caller slices off the inner-length prefix first).
func ParseDataApdu(data []byte) (DataApdu, error) {
	p := NewParser(data)

	invokeID, err := p.ReadUint16()
	if err != nil {
		return DataApdu{}, ErrTruncated
	}
	choice, err := p.ReadUint16()
	if err != nil {
		return DataApdu{}, ErrTruncated
	}
	length, err := p.ReadUint16()
	if err != nil {
		return DataApdu{}, ErrTruncated
	}
	body, err := p.ReadBytes(int(length))
	if err != nil {
		return DataApdu{}, ErrTruncated
	}
	if p.HasMore() {
		return DataApdu{}, ErrMalformedFrame
	}

	return DataApdu{InvokeID: invokeID, Choice: DataChoice(choice), Body: body}, nil
}

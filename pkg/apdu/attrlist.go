package apdu

import "encoding/binary"

// Attribute is one entry of an attribute list: an attribute-id tag paired
// with its raw, uninterpreted value bytes. Interpretation of value is
// deferred to the MDS model, parameterized by AttributeID.
type Attribute struct {
	AttributeID uint16
	Value       []byte
}

// AttributeList is the parsed form of the wire structure
// count:u16 | length:u16 | {attribute-id:u16 | value-length:u16 | value}*count.
type AttributeList struct {
	Attributes []Attribute
}

// ParseAttributeList parses an attribute list from the start of data.
// It returns the list and the number of bytes consumed.
func ParseAttributeList(data []byte) (AttributeList, int, error) {
	p := NewParser(data)

	count, err := p.ReadUint16()
	if err != nil {
		return AttributeList{}, 0, ErrTruncated
	}
	length, err := p.ReadUint16()
	if err != nil {
		return AttributeList{}, 0, ErrTruncated
	}
	if p.Remaining() < int(length) {
		return AttributeList{}, 0, ErrTruncated
	}

	list := AttributeList{Attributes: make([]Attribute, 0, count)}
	end := p.Offset() + int(length)
	for i := 0; i < int(count); i++ {
		if p.Offset() >= end {
			return AttributeList{}, 0, ErrMalformedFrame
		}
		id, err := p.ReadUint16()
		if err != nil {
			return AttributeList{}, 0, ErrTruncated
		}
		valLen, err := p.ReadUint16()
		if err != nil {
			return AttributeList{}, 0, ErrTruncated
		}
		val, err := p.ReadBytes(int(valLen))
		if err != nil {
			return AttributeList{}, 0, ErrTruncated
		}
		list.Attributes = append(list.Attributes, Attribute{AttributeID: id, Value: val})
	}
	if p.Offset() != end {
		return AttributeList{}, 0, ErrMalformedFrame
	}
	return list, p.Offset(), nil
}

// Find returns the value of the first attribute with the given id.
func (l AttributeList) Find(id uint16) ([]byte, bool) {
	for _, a := range l.Attributes {
		if a.AttributeID == id {
			return a.Value, true
		}
	}
	return nil, false
}

// EncodeAttributeList serializes an attribute list to wire form.
func EncodeAttributeList(attrs []Attribute) []byte {
	body := make([]byte, 0, 16)
	for _, a := range attrs {
		var hdr [4]byte
		binary.BigEndian.PutUint16(hdr[0:2], a.AttributeID)
		binary.BigEndian.PutUint16(hdr[2:4], uint16(len(a.Value)))
		body = append(body, hdr[:]...)
		body = append(body, a.Value...)
	}

	out := make([]byte, 4, 4+len(body))
	binary.BigEndian.PutUint16(out[0:2], uint16(len(attrs)))
	binary.BigEndian.PutUint16(out[2:4], uint16(len(body)))
	out = append(out, body...)
	return out
}

package apdu

import "encoding/binary"

// ObjectEntry is one object-class entry in a ConfigReport's object list: a
// handle for a specific instance of an object class, plus the attribute
// descriptors the agent advertises for it.
type ObjectEntry struct {
	Class      uint16
	Handle     uint16
	Attributes []Attribute
}

// ObjectList is the parsed form of the ConfigReport's object-attributes
// section: count:u16 | reserved:u16 | {class:u16 | handle:u16 |
// attr-count:u16 | attr-size:u16 | attr-count*{id:u16 | len:u16 | value}}*count.
//
// This mirrors the attribute-list wire shape of §4.2 one level up: each
// object carries its own inline, size-bounded run of attributes instead of
// a single list with its own count+length header.
type ObjectList struct {
	Entries []ObjectEntry
}

// ParseObjectList parses an object list from the start of data, grounded on
// the linear object-class scan of the original driver's get_obj/get_attr.
func ParseObjectList(data []byte) (ObjectList, error) {
	p := NewParser(data)

	count, err := p.ReadUint16()
	if err != nil {
		return ObjectList{}, ErrTruncated
	}
	if _, err := p.ReadUint16(); err != nil { // reserved
		return ObjectList{}, ErrTruncated
	}

	list := ObjectList{Entries: make([]ObjectEntry, 0, count)}
	for i := 0; i < int(count); i++ {
		class, err := p.ReadUint16()
		if err != nil {
			return ObjectList{}, ErrTruncated
		}
		handle, err := p.ReadUint16()
		if err != nil {
			return ObjectList{}, ErrTruncated
		}
		attrCount, err := p.ReadUint16()
		if err != nil {
			return ObjectList{}, ErrTruncated
		}
		attrSize, err := p.ReadUint16()
		if err != nil {
			return ObjectList{}, ErrTruncated
		}
		raw, err := p.ReadBytes(int(attrSize))
		if err != nil {
			return ObjectList{}, ErrTruncated
		}

		ap := NewParser(raw)
		attrs := make([]Attribute, 0, attrCount)
		for j := 0; j < int(attrCount); j++ {
			id, err := ap.ReadUint16()
			if err != nil {
				return ObjectList{}, ErrTruncated
			}
			valLen, err := ap.ReadUint16()
			if err != nil {
				return ObjectList{}, ErrTruncated
			}
			val, err := ap.ReadBytes(int(valLen))
			if err != nil {
				return ObjectList{}, ErrTruncated
			}
			attrs = append(attrs, Attribute{AttributeID: id, Value: val})
		}

		list.Entries = append(list.Entries, ObjectEntry{Class: class, Handle: handle, Attributes: attrs})
	}
	return list, nil
}

// EncodeObjectList serializes an object list to the wire form
// ParseObjectList expects: count:u16 | reserved:u16 | per-entry class,
// handle, attr-count, attr-size, then the attributes themselves.
func EncodeObjectList(l ObjectList) []byte {
	out := make([]byte, 4, 16)
	binary.BigEndian.PutUint16(out[0:2], uint16(len(l.Entries)))
	binary.BigEndian.PutUint16(out[2:4], 0) // reserved

	for _, e := range l.Entries {
		raw := make([]byte, 0, 8*len(e.Attributes))
		for _, a := range e.Attributes {
			var hdr [4]byte
			binary.BigEndian.PutUint16(hdr[0:2], a.AttributeID)
			binary.BigEndian.PutUint16(hdr[2:4], uint16(len(a.Value)))
			raw = append(raw, hdr[:]...)
			raw = append(raw, a.Value...)
		}

		var hdr [8]byte
		binary.BigEndian.PutUint16(hdr[0:2], e.Class)
		binary.BigEndian.PutUint16(hdr[2:4], e.Handle)
		binary.BigEndian.PutUint16(hdr[4:6], uint16(len(e.Attributes)))
		binary.BigEndian.PutUint16(hdr[6:8], uint16(len(raw)))
		out = append(out, hdr[:]...)
		out = append(out, raw...)
	}
	return out
}

// FindObject returns the first entry of the given object class.
func (l ObjectList) FindObject(class uint16) (ObjectEntry, bool) {
	for _, e := range l.Entries {
		if e.Class == class {
			return e, true
		}
	}
	return ObjectEntry{}, false
}

// FindAttribute returns the value of the first attribute with the given id
// on this object entry.
func (e ObjectEntry) FindAttribute(id uint16) ([]byte, bool) {
	for _, a := range e.Attributes {
		if a.AttributeID == id {
			return a.Value, true
		}
	}
	return nil, false
}

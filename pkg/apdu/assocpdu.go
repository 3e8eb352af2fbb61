package apdu

import "encoding/binary"

// AARQ is the association-request body the host sends to open a session.
type AARQ struct {
	ProtocolVersion    uint32
	EncodingRules      uint16
	NomenclatureVersion uint32
	FunctionalUnits    uint32
	SystemType         uint32
	SystemID           []byte // host identifier, conventionally 8 bytes
	DevConfigID        uint16
}

// EncodeAARQ serializes an AARQ to wire form as the Body of an AARQ Apdu.
func EncodeAARQ(r AARQ) []byte {
	info := make([]byte, 0, 22+len(r.SystemID))
	var buf4 [4]byte
	binary.BigEndian.PutUint32(buf4[:], r.ProtocolVersion)
	info = append(info, buf4[:]...)
	var buf2 [2]byte
	binary.BigEndian.PutUint16(buf2[:], r.EncodingRules)
	info = append(info, buf2[:]...)
	binary.BigEndian.PutUint32(buf4[:], r.NomenclatureVersion)
	info = append(info, buf4[:]...)
	binary.BigEndian.PutUint32(buf4[:], r.FunctionalUnits)
	info = append(info, buf4[:]...)
	binary.BigEndian.PutUint32(buf4[:], r.SystemType)
	info = append(info, buf4[:]...)
	binary.BigEndian.PutUint16(buf2[:], uint16(len(r.SystemID)))
	info = append(info, buf2[:]...)
	info = append(info, r.SystemID...)

	body := make([]byte, 0, 6+len(info))
	binary.BigEndian.PutUint16(buf2[:], r.DevConfigID)
	body = append(body, buf2[:]...)
	binary.BigEndian.PutUint16(buf2[:], 20601) // data-protocol-id
	body = append(body, buf2[:]...)
	binary.BigEndian.PutUint16(buf2[:], uint16(len(info)))
	body = append(body, buf2[:]...)
	body = append(body, info...)
	return body
}

// AARE is the association-response body the agent returns.
type AARE struct {
	Result      AssocResult
	DevConfigID uint16
	SystemID    []byte
}

// ParseAARE parses an AARE from the Body of an AARE Apdu. hostProtocolVersion
// is the version bitfield the host advertised in its own AARQ (§4.3); if the
// agent's association-information carries a protocol-version that shares no
// bits with it, ParseAARE returns ErrUnsupportedVersion instead of silently
// accepting an incompatible peer (§4.2).
func ParseAARE(body []byte, hostProtocolVersion uint32) (AARE, error) {
	p := NewParser(body)

	result, err := p.ReadUint16()
	if err != nil {
		return AARE{}, ErrTruncated
	}

	a := AARE{Result: AssocResult(result)}

	if !p.HasMore() {
		return a, nil
	}

	// data-protocol-id, data-protocol-info-length
	if _, err := p.ReadUint16(); err != nil {
		return AARE{}, ErrTruncated
	}
	infoLen, err := p.ReadUint16()
	if err != nil {
		return AARE{}, ErrTruncated
	}
	info, err := p.ReadBytes(int(infoLen))
	if err != nil {
		return AARE{}, ErrTruncated
	}

	ip := NewParser(info)
	if ip.Remaining() >= 4+2+4+4+4 {
		version, err := ip.ReadUint32() // protocol-version
		if err != nil {
			return AARE{}, ErrTruncated
		}
		if version&hostProtocolVersion == 0 {
			return AARE{}, ErrUnsupportedVersion
		}
		if err := ip.Skip(2 + 4 + 4); err != nil { // encoding-rules, nomenclature-version, functional-units
			return AARE{}, ErrTruncated
		}
		if _, err := ip.ReadUint32(); err != nil { // system-type
			return AARE{}, ErrTruncated
		}
		if idLen, err := ip.ReadUint16(); err == nil {
			if id, err := ip.ReadBytes(int(idLen)); err == nil {
				a.SystemID = id
			}
		}
	}
	_ = a.DevConfigID // not carried on the wire by AARE in this exchange; reserved for known-config lookups
	return a, nil
}

// RLRQ is the release-request body: reason:u16.
type RLRQ struct {
	Reason uint16
}

// ReleaseReasonNormal is the only release reason this driver ever sends.
const ReleaseReasonNormal uint16 = 0x0000

// EncodeRLRQ serializes an RLRQ.
func EncodeRLRQ(r RLRQ) []byte {
	var buf2 [2]byte
	binary.BigEndian.PutUint16(buf2[:], r.Reason)
	return buf2[:]
}

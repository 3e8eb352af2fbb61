package apdu

import "encoding/binary"

// Apdu is the outer association-layer protocol data unit: a tagged union
// over the six outer choices. Only Body is populated for AARQ/AARE/RLRQ/
// RLRE/ABRT; PRST additionally exposes Data, the decoded nested DataApdu,
// so callers never need to re-parse Body by hand.
type Apdu struct {
	Choice Choice
	Body   []byte
	Data   *DataApdu // populated only when Choice == ChoicePRST
}

// Encode serializes an Apdu to wire form: choice:u16 | length:u16 | body.
func Encode(a Apdu) []byte {
	body := a.Body
	if a.Choice == ChoicePRST && a.Data != nil {
		inner := EncodeDataApdu(*a.Data)
		body = make([]byte, 2, 2+len(inner))
		binary.BigEndian.PutUint16(body[0:2], uint16(len(inner)))
		body = append(body, inner...)
	}

	out := make([]byte, 4, 4+len(body))
	binary.BigEndian.PutUint16(out[0:2], uint16(a.Choice))
	binary.BigEndian.PutUint16(out[2:4], uint16(len(body)))
	out = append(out, body...)
	return out
}

// Parse parses one Apdu out of a complete frame buffer (as produced by the
// frame transport). The declared length must equal the number of bytes
// following it exactly; this is the length-consistency invariant from §3.
func Parse(data []byte) (Apdu, error) {
	p := NewParser(data)

	choice, err := p.ReadUint16()
	if err != nil {
		return Apdu{}, ErrTruncated
	}
	length, err := p.ReadUint16()
	if err != nil {
		return Apdu{}, ErrTruncated
	}
	body, err := p.ReadBytes(int(length))
	if err != nil {
		return Apdu{}, ErrTruncated
	}
	if p.HasMore() {
		return Apdu{}, ErrMalformedFrame
	}

	a := Apdu{Choice: Choice(choice), Body: body}
	switch a.Choice {
	case ChoiceAARQ, ChoiceAARE, ChoiceRLRQ, ChoiceRLRE, ChoiceABRT, ChoicePRST:
	default:
		return Apdu{}, &UnexpectedApduError{Got: a.Choice}
	}

	if a.Choice == ChoicePRST {
		bp := NewParser(body)
		innerLen, err := bp.ReadUint16()
		if err != nil {
			return Apdu{}, ErrTruncated
		}
		innerBody, err := bp.ReadBytes(int(innerLen))
		if err != nil {
			return Apdu{}, ErrTruncated
		}
		if bp.HasMore() {
			return Apdu{}, ErrMalformedFrame
		}
		data, err := ParseDataApdu(innerBody)
		if err != nil {
			return Apdu{}, err
		}
		a.Data = &data
	}

	return a, nil
}

package apdu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestApduRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		a    Apdu
	}{
		{"AARQ", Apdu{Choice: ChoiceAARQ, Body: EncodeAARQ(AARQ{
			ProtocolVersion:     20601,
			EncodingRules:       0x8000,
			NomenclatureVersion: 1,
			FunctionalUnits:     0,
			SystemType:          1,
			SystemID:            []byte{0, 0, 0, 0, 0, 0, 0, 0},
			DevConfigID:         0x4000,
		})}},
		{"RLRQ", Apdu{Choice: ChoiceRLRQ, Body: EncodeRLRQ(RLRQ{Reason: ReleaseReasonNormal})}},
		{"ABRT", Apdu{Choice: ChoiceABRT, Body: []byte{0x00, 0x00}}},
		{"PRST/Get", Apdu{Choice: ChoicePRST, Data: &DataApdu{
			InvokeID: 1,
			Choice:   DataChoiceGetInvoke,
			Body:     EncodeGetArgument(GetArgument{Handle: 0, AttributeIDs: []uint16{1, 2, 3}}),
		}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			encoded := Encode(c.a)
			parsed, err := Parse(encoded)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if parsed.Choice != c.a.Choice {
				t.Fatalf("choice mismatch: got %v want %v", parsed.Choice, c.a.Choice)
			}
			if c.a.Data == nil {
				if !bytes.Equal(parsed.Body, c.a.Body) {
					t.Fatalf("body mismatch: got % x want % x", parsed.Body, c.a.Body)
				}
				return
			}
			if parsed.Data == nil {
				t.Fatal("expected decoded Data, got nil")
			}
			if parsed.Data.InvokeID != c.a.Data.InvokeID || parsed.Data.Choice != c.a.Data.Choice {
				t.Fatalf("data header mismatch: got %+v want %+v", parsed.Data, c.a.Data)
			}
			if !bytes.Equal(parsed.Data.Body, c.a.Data.Body) {
				t.Fatalf("data body mismatch: got % x want % x", parsed.Data.Body, c.a.Data.Body)
			}
		})
	}
}

func TestParseLengthConsistency(t *testing.T) {
	// Declared length shorter than actual trailing bytes must be rejected
	// as malformed, not silently truncated.
	frame := Encode(Apdu{Choice: ChoiceRLRQ, Body: []byte{0x00, 0x00}})
	frame = append(frame, 0xFF) // trailing garbage past the declared length
	if _, err := Parse(frame); err == nil {
		t.Fatal("expected error for length/body mismatch")
	}
}

func TestParseTruncated(t *testing.T) {
	frame := Encode(Apdu{Choice: ChoiceRLRQ, Body: []byte{0x00, 0x00}})
	if _, err := Parse(frame[:len(frame)-1]); err == nil {
		t.Fatal("expected truncated error")
	}
}

func TestParseUnknownChoice(t *testing.T) {
	frame := []byte{0x12, 0x34, 0x00, 0x00} // 0x1234 isn't one of the six outer choices
	_, err := Parse(frame)
	var unexpected *UnexpectedApduError
	if !errors.As(err, &unexpected) {
		t.Fatalf("err = %v (%T), want *UnexpectedApduError", err, err)
	}
	if unexpected.Got != Choice(0x1234) {
		t.Fatalf("Got = %v, want 0x1234", unexpected.Got)
	}
}

// buildAAREInfo builds an AARE's association-information block: the
// protocol-version/encoding-rules/nomenclature-version/functional-units/
// system-type/system-id fields ParseAARE reads past its result code.
func buildAAREInfo(protocolVersion uint32, systemID []byte) []byte {
	var buf4 [4]byte
	var buf2 [2]byte
	info := make([]byte, 0, 18+len(systemID))

	binary.BigEndian.PutUint32(buf4[:], protocolVersion)
	info = append(info, buf4[:]...)
	binary.BigEndian.PutUint16(buf2[:], 0x8000) // encoding-rules
	info = append(info, buf2[:]...)
	binary.BigEndian.PutUint32(buf4[:], 1) // nomenclature-version
	info = append(info, buf4[:]...)
	binary.BigEndian.PutUint32(buf4[:], 0) // functional-units
	info = append(info, buf4[:]...)
	binary.BigEndian.PutUint32(buf4[:], 1) // system-type
	info = append(info, buf4[:]...)
	binary.BigEndian.PutUint16(buf2[:], uint16(len(systemID)))
	info = append(info, buf2[:]...)
	info = append(info, systemID...)
	return info
}

func buildAAREBody(result uint16, info []byte) []byte {
	var buf2 [2]byte
	body := make([]byte, 0, 6+len(info))

	binary.BigEndian.PutUint16(buf2[:], result)
	body = append(body, buf2[:]...)
	binary.BigEndian.PutUint16(buf2[:], 20601) // data-protocol-id
	body = append(body, buf2[:]...)
	binary.BigEndian.PutUint16(buf2[:], uint16(len(info)))
	body = append(body, buf2[:]...)
	body = append(body, info...)
	return body
}

func TestParseAAREUnsupportedVersion(t *testing.T) {
	// 0xFFFF0000 shares no bits with 20601 (0x00005079).
	info := buildAAREInfo(0xFFFF0000, make([]byte, 8))
	body := buildAAREBody(uint16(ResultAccepted), info)

	_, err := ParseAARE(body, 20601)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestParseAAREAcceptedVersionOverlap(t *testing.T) {
	systemID := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	info := buildAAREInfo(20601, systemID)
	body := buildAAREBody(uint16(ResultAccepted), info)

	aare, err := ParseAARE(body, 20601)
	if err != nil {
		t.Fatalf("ParseAARE: %v", err)
	}
	if !bytes.Equal(aare.SystemID, systemID) {
		t.Fatalf("SystemID = % x, want % x", aare.SystemID, systemID)
	}
}

func TestAttributeListRoundTrip(t *testing.T) {
	attrs := []Attribute{
		{AttributeID: 0x0ABC, Value: []byte{1, 2, 3}},
		{AttributeID: 0x0DEF, Value: []byte{}},
	}
	encoded := EncodeAttributeList(attrs)
	list, consumed, err := ParseAttributeList(encoded)
	if err != nil {
		t.Fatalf("ParseAttributeList: %v", err)
	}
	if consumed != len(encoded) {
		t.Fatalf("consumed %d, want %d", consumed, len(encoded))
	}
	if len(list.Attributes) != 2 {
		t.Fatalf("got %d attributes, want 2", len(list.Attributes))
	}
	v, ok := list.Find(0x0ABC)
	if !ok || !bytes.Equal(v, []byte{1, 2, 3}) {
		t.Fatalf("Find(0x0ABC) = %v, %v", v, ok)
	}
}

func TestObjectListRoundTrip(t *testing.T) {
	list := ObjectList{Entries: []ObjectEntry{
		{Class: 61, Handle: 1, Attributes: []Attribute{{AttributeID: 2385, Value: []byte{0, 3}}}},
		{Class: 37, Handle: 0, Attributes: nil},
	}}
	encoded := EncodeObjectList(list)
	parsed, err := ParseObjectList(encoded)
	if err != nil {
		t.Fatalf("ParseObjectList: %v", err)
	}
	if len(parsed.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(parsed.Entries))
	}
	entry, ok := parsed.FindObject(61)
	if !ok || entry.Handle != 1 {
		t.Fatalf("FindObject(61) = %+v, %v", entry, ok)
	}
	val, ok := entry.FindAttribute(2385)
	if !ok || !bytes.Equal(val, []byte{0, 3}) {
		t.Fatalf("FindAttribute(2385) = %v, %v", val, ok)
	}
}

func TestServiceArgumentRoundTrip(t *testing.T) {
	get := GetArgument{Handle: 5, AttributeIDs: []uint16{10, 20}}
	parsedGet, err := ParseGetArgument(EncodeGetArgument(get))
	if err != nil || parsedGet.Handle != 5 || len(parsedGet.AttributeIDs) != 2 {
		t.Fatalf("GetArgument round trip failed: %+v, %v", parsedGet, err)
	}

	action := ActionArgument{Handle: 1, ActionType: 0x0C1C, Info: []byte{0, 1}}
	parsedAction, err := ParseActionArgument(EncodeActionArgument(action))
	if err != nil || parsedAction.Handle != action.Handle || parsedAction.ActionType != action.ActionType || !bytes.Equal(parsedAction.Info, action.Info) {
		t.Fatalf("ActionArgument round trip failed: %+v, %v", parsedAction, err)
	}

	event := EventReportArgument{Handle: 0, EventType: 0x0D1C, Info: []byte{1, 2, 3}}
	parsedEvent, err := ParseEventReportArgument(EncodeEventReportArgument(event))
	if err != nil || parsedEvent.Handle != event.Handle || parsedEvent.EventType != event.EventType {
		t.Fatalf("EventReportArgument round trip failed: %+v, %v", parsedEvent, err)
	}

	result := EventReportResult{Handle: 0, EventType: 0x0D1C, Result: 0x0000}
	parsedResult, err := ParseEventReportResult(EncodeEventReportResult(result))
	if err != nil || parsedResult != result {
		t.Fatalf("EventReportResult round trip failed: %+v, %v", parsedResult, err)
	}
}

package apdu

import "encoding/binary"

// The service-level bodies below are the DataApdu payload shapes shared by
// every GET / confirmed-action / confirmed-event-report exchange this
// driver performs (§4.4, §4.5). They generalize the attribute-list wire
// form of §4.2 one level up, the same way ObjectList does for a
// ConfigReport's object entries: a fixed handle/type header followed by
// an opaque, codec-owned tail whose interpretation is left to the mds and
// measurement packages.

// GetArgument is the body of a roiv-cmip-get request: an object handle
// plus the attribute ids requested. An empty AttributeIDs list means "all
// attributes", per §4.4's GET MDS call.
type GetArgument struct {
	Handle       uint16
	AttributeIDs []uint16
}

// EncodeGetArgument serializes a GetArgument.
func EncodeGetArgument(g GetArgument) []byte {
	out := make([]byte, 4, 4+2*len(g.AttributeIDs))
	binary.BigEndian.PutUint16(out[0:2], g.Handle)
	binary.BigEndian.PutUint16(out[2:4], uint16(len(g.AttributeIDs)))
	for _, id := range g.AttributeIDs {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], id)
		out = append(out, b[:]...)
	}
	return out
}

// ParseGetArgument parses a GetArgument.
func ParseGetArgument(data []byte) (GetArgument, error) {
	p := NewParser(data)
	handle, err := p.ReadUint16()
	if err != nil {
		return GetArgument{}, ErrTruncated
	}
	count, err := p.ReadUint16()
	if err != nil {
		return GetArgument{}, ErrTruncated
	}
	g := GetArgument{Handle: handle, AttributeIDs: make([]uint16, 0, count)}
	for i := 0; i < int(count); i++ {
		id, err := p.ReadUint16()
		if err != nil {
			return GetArgument{}, ErrTruncated
		}
		g.AttributeIDs = append(g.AttributeIDs, id)
	}
	return g, nil
}

// GetResult is the body of a rors-cmip-get response: the object handle
// echoed back plus the resolved attribute values.
type GetResult struct {
	Handle     uint16
	Attributes AttributeList
}

// EncodeGetResult serializes a GetResult.
func EncodeGetResult(r GetResult) []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, r.Handle)
	return append(out, EncodeAttributeList(r.Attributes.Attributes)...)
}

// ParseGetResult parses a GetResult.
func ParseGetResult(data []byte) (GetResult, error) {
	p := NewParser(data)
	handle, err := p.ReadUint16()
	if err != nil {
		return GetResult{}, ErrTruncated
	}
	rest, err := p.ReadBytes(p.Remaining())
	if err != nil {
		return GetResult{}, ErrTruncated
	}
	attrs, _, err := ParseAttributeList(rest)
	if err != nil {
		return GetResult{}, err
	}
	return GetResult{Handle: handle, Attributes: attrs}, nil
}

// ActionArgument is the body of a roiv-cmip-confirmed-action request: an
// object handle, an action-type id, and opaque action-specific
// information (e.g. a segment selector for TRIG_SEGMENT_DATA_XFER, §4.5).
type ActionArgument struct {
	Handle     uint16
	ActionType uint16
	Info       []byte
}

// EncodeActionArgument serializes an ActionArgument.
func EncodeActionArgument(a ActionArgument) []byte {
	out := make([]byte, 6, 6+len(a.Info))
	binary.BigEndian.PutUint16(out[0:2], a.Handle)
	binary.BigEndian.PutUint16(out[2:4], a.ActionType)
	binary.BigEndian.PutUint16(out[4:6], uint16(len(a.Info)))
	return append(out, a.Info...)
}

// ParseActionArgument parses an ActionArgument.
func ParseActionArgument(data []byte) (ActionArgument, error) {
	p := NewParser(data)
	handle, err := p.ReadUint16()
	if err != nil {
		return ActionArgument{}, ErrTruncated
	}
	actionType, err := p.ReadUint16()
	if err != nil {
		return ActionArgument{}, ErrTruncated
	}
	length, err := p.ReadUint16()
	if err != nil {
		return ActionArgument{}, ErrTruncated
	}
	info, err := p.ReadBytes(int(length))
	if err != nil {
		return ActionArgument{}, ErrTruncated
	}
	return ActionArgument{Handle: handle, ActionType: actionType, Info: info}, nil
}

// ActionResult is the body of a rors-cmip-confirmed-action response,
// mirroring ActionArgument's shape.
type ActionResult struct {
	Handle     uint16
	ActionType uint16
	Info       []byte
}

// EncodeActionResult serializes an ActionResult.
func EncodeActionResult(a ActionResult) []byte {
	return EncodeActionArgument(ActionArgument{Handle: a.Handle, ActionType: a.ActionType, Info: a.Info})
}

// ParseActionResult parses an ActionResult.
func ParseActionResult(data []byte) (ActionResult, error) {
	a, err := ParseActionArgument(data)
	if err != nil {
		return ActionResult{}, err
	}
	return ActionResult{Handle: a.Handle, ActionType: a.ActionType, Info: a.Info}, nil
}

// EventReportArgument is the body of a roiv-cmip-confirmed-event-report:
// an object handle, an event-type id, and opaque event-specific
// information (a ConfigReport for MDC_NOTI_CONFIG, or a segment-data
// chunk for SEGMENT_DATA_EVENT, §4.3/§4.5).
type EventReportArgument struct {
	Handle    uint16
	EventType uint16
	Info      []byte
}

// EncodeEventReportArgument serializes an EventReportArgument.
func EncodeEventReportArgument(e EventReportArgument) []byte {
	out := make([]byte, 6, 6+len(e.Info))
	binary.BigEndian.PutUint16(out[0:2], e.Handle)
	binary.BigEndian.PutUint16(out[2:4], e.EventType)
	binary.BigEndian.PutUint16(out[4:6], uint16(len(e.Info)))
	return append(out, e.Info...)
}

// ParseEventReportArgument parses an EventReportArgument.
func ParseEventReportArgument(data []byte) (EventReportArgument, error) {
	p := NewParser(data)
	handle, err := p.ReadUint16()
	if err != nil {
		return EventReportArgument{}, ErrTruncated
	}
	eventType, err := p.ReadUint16()
	if err != nil {
		return EventReportArgument{}, ErrTruncated
	}
	length, err := p.ReadUint16()
	if err != nil {
		return EventReportArgument{}, ErrTruncated
	}
	info, err := p.ReadBytes(int(length))
	if err != nil {
		return EventReportArgument{}, ErrTruncated
	}
	return EventReportArgument{Handle: handle, EventType: eventType, Info: info}, nil
}

// EventReportResult is the body of the host's rors-cmip-confirmed-event-report
// acknowledging an event: the handle and event-type echoed back plus a
// result code (e.g. accepted-config, §4.3).
type EventReportResult struct {
	Handle    uint16
	EventType uint16
	Result    uint16
}

// EncodeEventReportResult serializes an EventReportResult.
func EncodeEventReportResult(e EventReportResult) []byte {
	out := make([]byte, 6)
	binary.BigEndian.PutUint16(out[0:2], e.Handle)
	binary.BigEndian.PutUint16(out[2:4], e.EventType)
	binary.BigEndian.PutUint16(out[4:6], e.Result)
	return out
}

// ParseEventReportResult parses an EventReportResult.
func ParseEventReportResult(data []byte) (EventReportResult, error) {
	p := NewParser(data)
	handle, err := p.ReadUint16()
	if err != nil {
		return EventReportResult{}, ErrTruncated
	}
	eventType, err := p.ReadUint16()
	if err != nil {
		return EventReportResult{}, ErrTruncated
	}
	result, err := p.ReadUint16()
	if err != nil {
		return EventReportResult{}, ErrTruncated
	}
	return EventReportResult{Handle: handle, EventType: eventType, Result: result}, nil
}

package mds

import (
	"encoding/binary"

	"accuchek/phd-go/pkg/apdu"
)

// EncodeConfigReport serializes a ConfigReport to the event-info payload
// carried inside an EventReportArgument for MDC_NOTI_CONFIG: config-id:u16
// followed by the object list (§4.3).
func EncodeConfigReport(cr ConfigReport) []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, cr.ConfigID)
	return append(out, apdu.EncodeObjectList(cr.Objects)...)
}

// ParseConfigReport parses a ConfigReport out of an MDC_NOTI_CONFIG
// event-info payload.
func ParseConfigReport(data []byte) (ConfigReport, error) {
	p := apdu.NewParser(data)
	configID, err := p.ReadUint16()
	if err != nil {
		return ConfigReport{}, ErrBadConfigNotification
	}
	rest, err := p.ReadBytes(p.Remaining())
	if err != nil {
		return ConfigReport{}, ErrBadConfigNotification
	}
	objects, err := apdu.ParseObjectList(rest)
	if err != nil {
		return ConfigReport{}, err
	}
	return ConfigReport{ConfigID: configID, Objects: objects}, nil
}

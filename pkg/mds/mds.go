package mds

import (
	"encoding/binary"

	"accuchek/phd-go/pkg/apdu"
)

// ConfigReport is the agent's self-description, delivered via a
// Confirmed-Event-Report for MDC_NOTI_CONFIG once association reaches
// accepted-unknown-config (§4.3). It identifies the semantic layout of
// every measurement object the session will later read.
type ConfigReport struct {
	ConfigID uint16
	Objects  apdu.ObjectList
}

// Attributes is the session's Medical Data Service self-description,
// populated from the GET MDS response (§4.4).
type Attributes struct {
	SystemType    uint32
	SystemModel   string // manufacturer/model octet string, MDC_ATTR_ID_MODEL
	SystemID      []byte
	DevConfigID   uint16
	TimeAbs       []byte   // 8-byte BCD device wall-clock at reply time
	ProdSpecifics []string // MDC_ATTR_ID_PROD_SPECN strings
}

// mandatoryMDSAttrs lists the attributes ParseMDS refuses to proceed
// without: the system type and the device's absolute wall-clock time.
// Reading epochs are not taken from this MDS time; the measurement
// decoder uses each segment entry's own absolute-time field.
var mandatoryMDSAttrs = []uint16{AttrSysType, AttrTimeAbs}

// ParseMDS decodes the attribute list carried by a rors-cmip-get response
// to "GET MDS" (object handle 0, empty attribute-id list).
func ParseMDS(attrs apdu.AttributeList) (Attributes, error) {
	for _, id := range mandatoryMDSAttrs {
		if _, ok := attrs.Find(id); !ok {
			return Attributes{}, &AttributeMissingError{ID: id}
		}
	}

	a := Attributes{}

	if v, ok := attrs.Find(AttrSysType); ok && len(v) >= 4 {
		a.SystemType = binary.BigEndian.Uint32(v)
	}
	if v, ok := attrs.Find(AttrSysID); ok {
		a.SystemID = v
	}
	if v, ok := attrs.Find(AttrDevConfigID); ok && len(v) >= 2 {
		a.DevConfigID = binary.BigEndian.Uint16(v)
	}
	if v, ok := attrs.Find(AttrTimeAbs); ok {
		a.TimeAbs = v
	}
	if v, ok := attrs.Find(AttrIDModel); ok {
		a.SystemModel = string(v)
	}
	if v, ok := attrs.Find(AttrIDProdSpecn); ok {
		a.ProdSpecifics = append(a.ProdSpecifics, string(v))
	}

	return a, nil
}

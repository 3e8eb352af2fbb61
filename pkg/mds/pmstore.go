package mds

import (
	"encoding/binary"
	"fmt"
	"strings"

	"accuchek/phd-go/pkg/apdu"
)

// PmStoreDescriptor holds a single PM-Store's handle and the descriptors
// the measurement decoder needs to read a segment out, per §4.4: declared
// capability bits, segment count, and the fixed-segment-data type
// descriptor.
type PmStoreDescriptor struct {
	Handle      uint16
	Capab       []byte // raw MDC_ATTR_PM_STORE_CAPAB bits, interpreted by measurement package
	NumSegments uint16
	FixedData   []byte // raw MDC_ATTR_SEG_FIXED_DATA type descriptor, if advertised
}

// FindPmStores locates every MDC_MOC_VMO_PMSTORE object entry in cr's
// object list. It returns ErrUnexpectedConfig when none is present, per
// §4.4's failure mode and §8 scenario 6.
func FindPmStores(cr ConfigReport) ([]PmStoreDescriptor, error) {
	var stores []PmStoreDescriptor
	for _, entry := range cr.Objects.Entries {
		if entry.Class != MocVmoPmStore {
			continue
		}
		d, err := parsePmStoreEntry(entry)
		if err != nil {
			return nil, err
		}
		stores = append(stores, d)
	}
	if len(stores) == 0 {
		classes := make([]string, 0, len(cr.Objects.Entries))
		for _, entry := range cr.Objects.Entries {
			classes = append(classes, fmt.Sprintf("%s (0x%04x)", NameOf(entry.Class), entry.Class))
		}
		return nil, fmt.Errorf("%w: advertised object classes: [%s]", ErrUnexpectedConfig, strings.Join(classes, ", "))
	}
	return stores, nil
}

func parsePmStoreEntry(entry apdu.ObjectEntry) (PmStoreDescriptor, error) {
	d := PmStoreDescriptor{Handle: entry.Handle}

	if v, ok := entry.FindAttribute(AttrNumSeg); ok && len(v) >= 2 {
		d.NumSegments = binary.BigEndian.Uint16(v)
	}
	if v, ok := entry.FindAttribute(AttrPmStoreCapab); ok {
		d.Capab = v
	}
	if v, ok := entry.FindAttribute(AttrSegFixedData); ok {
		d.FixedData = v
	}
	return d, nil
}

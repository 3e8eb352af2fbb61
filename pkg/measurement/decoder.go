package measurement

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"accuchek/phd-go/pkg/apdu"
	"accuchek/phd-go/internal/logger"
	"accuchek/phd-go/pkg/mds"
)

// PhdSession is the subset of *assoc.Association the decoder needs: GET,
// confirmed-action, and the confirmed-event-report recv/confirm pair. It
// is declared here rather than imported from pkg/assoc directly so the
// decoder depends only on the shape of the calls it makes, the same way
// pkg/transport's Endpoints interface decouples the frame layer from any
// concrete USB binding.
type PhdSession interface {
	Get(handle uint16, attrIDs []uint16) (apdu.AttributeList, error)
	Action(handle, actionType uint16, info []byte) (apdu.ActionResult, error)
	RecvEvent() (apdu.EventReportArgument, error)
	ConfirmEvent(ev apdu.EventReportArgument, result uint16) error
}

// Decode performs the PM-Store readout of §4.5 against every PM-Store the
// ConfigReport advertises, returning the full ordered Reading sequence
// for the session. It returns mds.ErrUnexpectedConfig if cr advertises no
// usable PM-Store, and ErrMissingAbsoluteTime the first time a segment
// entry carries only a relative-time attribute (§3's invariant, enforced
// as fatal to the session per §7's propagation policy).
func Decode(conn PhdSession, cr mds.ConfigReport, log logger.Logger) ([]Reading, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	stores, err := mds.FindPmStores(cr)
	if err != nil {
		return nil, err
	}

	var readings []Reading
	var seq uint32

	for _, store := range stores {
		numSeg, err := numSegments(conn, store)
		if err != nil {
			return nil, err
		}
		log.Debug("measurement: PM-Store handle=0x%04x segments=%d", store.Handle, numSeg)

		for s := uint16(0); s < numSeg; s++ {
			entries, err := readSegment(conn, store.Handle, s, log)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				r, ok, err := toReading(e, &seq, log)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				readings = append(readings, r)
			}
		}
	}

	return readings, nil
}

// numSegments issues the §4.5 step-1a GET PM-Store call to retrieve a
// fresh number-of-segments, falling back to the ConfigReport's declared
// value if the attribute is absent from the response.
func numSegments(conn PhdSession, store mds.PmStoreDescriptor) (uint16, error) {
	attrs, err := conn.Get(store.Handle, []uint16{mds.AttrNumSeg, mds.AttrPmStoreCapab, mds.AttrSegFixedData})
	if err != nil {
		return 0, err
	}
	if v, ok := attrs.Find(mds.AttrNumSeg); ok && len(v) >= 2 {
		return binary.BigEndian.Uint16(v), nil
	}
	return store.NumSegments, nil
}

// readSegment triggers a segment transfer and collects every chunk the
// device streams back, confirming each as it arrives, until a chunk
// carrying the device's final-flag ends the stream. A chunk with zero
// entries and no final-flag does not end it.
func readSegment(conn PhdSession, storeHandle, segmentID uint16, log logger.Logger) ([]Entry, error) {
	if _, err := conn.Action(storeHandle, mds.ActionTypeSegTrigXfer, EncodeSegmentSelector(segmentID)); err != nil {
		return nil, err
	}

	var entries []Entry
	for {
		ev, err := conn.RecvEvent()
		if err != nil {
			return nil, err
		}
		if ev.EventType != mds.EventTypeMdcNotiSegmentData {
			return nil, fmt.Errorf("measurement: unexpected event-type 0x%04x while reading segment %d, expected MDC_NOTI_SEGMENT_DATA", ev.EventType, segmentID)
		}

		chunk, err := ParseSegmentDataEvent(ev.Info)
		if err != nil {
			return nil, err
		}
		if err := conn.ConfirmEvent(ev, mds.ConfigResultAccepted); err != nil {
			return nil, err
		}

		parsed, err := ParseEntries(chunk.Entries, int(chunk.EntryCount))
		if err != nil {
			return nil, err
		}
		entries = append(entries, parsed...)
		log.Debug("measurement: segment %d chunk entries=%d final=%v", segmentID, len(parsed), chunk.Final)

		if chunk.Final {
			break
		}
	}
	return entries, nil
}

// toReading derives a Reading from e, or reports ok=false when e is a
// sentinel sample to skip (§4.5 "Sentinel skip") or carries a unit code
// this driver doesn't interpret.
func toReading(e Entry, seq *uint32, log logger.Logger) (Reading, bool, error) {
	if !e.HasAbsTime {
		return Reading{}, false, ErrMissingAbsoluteTime
	}
	epoch, err := DecodeAbsoluteTime(e.AbsTime)
	if err != nil {
		return Reading{}, false, err
	}

	value, err := e.Value()
	if err != nil {
		if errors.Is(err, ErrSentinel) {
			return Reading{}, false, nil
		}
		return Reading{}, false, err
	}

	var mgDl uint16
	switch e.UnitCode {
	case mds.UnitMilliGPerDL:
		mgDl = uint16(math.Round(value))
	case mds.UnitMilliMolePerL:
		mgDl = uint16(math.Round(value * mgDlPerMmolL))
	default:
		log.Warn("measurement: unrecognized unit code 0x%04x, skipping entry", e.UnitCode)
		return Reading{}, false, nil
	}

	r := deriveReading(*seq, epoch, mgDl)
	*seq++
	return r, true, nil
}

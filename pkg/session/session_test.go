package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"accuchek/phd-go/pkg/apdu"
	"accuchek/phd-go/pkg/assoc"
	"accuchek/phd-go/pkg/mds"
	"accuchek/phd-go/pkg/measurement"
	"accuchek/phd-go/pkg/transport"
	"accuchek/phd-go/pkg/transport/mocktransport"
)

var demoAbsTime = []byte{0x20, 0x24, 0x12, 0x25, 0x12, 0x00, 0x00, 0x00}

const demoPmStoreHandle uint16 = 1

// newScriptedEndpoints wires mocktransport's OnMismatch hook through to
// require.Fail, so a script/call-sequence mismatch reports through
// testify with the usual file:line context instead of panicking.
func newScriptedEndpoints(t *testing.T, steps []mocktransport.Step) *mocktransport.Endpoints {
	ep := mocktransport.New(steps)
	ep.OnMismatch = func(msg string) { require.Fail(t, msg) }
	return ep
}

// happyPathScript builds the §8 scenario-1 transcript: associate, accept
// the unknown-config notification, GET MDS, GET PM-Store, trigger and
// read one segment with a single 95 mg/dL reading, then close.
func happyPathScript(t *testing.T) []mocktransport.Step {
	t.Helper()

	aareFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceAARE, Body: []byte{0x00, 0x01}})

	cr := mds.ConfigReport{ConfigID: 0x1234, Objects: apdu.ObjectList{Entries: []apdu.ObjectEntry{
		{Class: mds.MocVmoPmStore, Handle: demoPmStoreHandle},
	}}}
	configEvent := apdu.DataApdu{InvokeID: 0x8001, Choice: apdu.DataChoiceEventReportInvoke, Body: apdu.EncodeEventReportArgument(apdu.EventReportArgument{
		Handle: 0, EventType: mds.EventTypeMdcNotiConfig, Info: mds.EncodeConfigReport(cr),
	})}
	configEventFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &configEvent})

	mdsResp := apdu.DataApdu{InvokeID: 1, Choice: apdu.DataChoiceGetResponse, Body: apdu.EncodeGetResult(apdu.GetResult{
		Handle: 0,
		Attributes: apdu.AttributeList{Attributes: []apdu.Attribute{
			{AttributeID: mds.AttrSysType, Value: []byte{0, 0, 0, 1}},
			{AttributeID: mds.AttrTimeAbs, Value: demoAbsTime},
		}},
	})}
	mdsRespFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &mdsResp})

	pmResp := apdu.DataApdu{InvokeID: 3, Choice: apdu.DataChoiceGetResponse, Body: apdu.EncodeGetResult(apdu.GetResult{
		Handle:     demoPmStoreHandle,
		Attributes: apdu.AttributeList{Attributes: []apdu.Attribute{{AttributeID: mds.AttrNumSeg, Value: []byte{0x00, 0x01}}}},
	})}
	pmRespFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &pmResp})

	actionResp := apdu.DataApdu{InvokeID: 5, Choice: apdu.DataChoiceActionResult, Body: apdu.EncodeActionResult(apdu.ActionResult{
		Handle: demoPmStoreHandle, ActionType: mds.ActionTypeSegTrigXfer,
	})}
	actionRespFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &actionResp})

	entry := measurement.Entry{HasAbsTime: true, AbsTime: demoAbsTime, ValueKind: measurement.ValueKindSFLOAT, RawValue: 0x005F, UnitCode: mds.UnitMilliGPerDL}
	segInfo := measurement.EncodeSegmentDataEvent(measurement.SegmentDataEvent{SegmentID: 0, Final: true, EntryCount: 1, Entries: measurement.EncodeEntry(entry)})
	segEvent := apdu.DataApdu{InvokeID: 0x8002, Choice: apdu.DataChoiceEventReportInvoke, Body: apdu.EncodeEventReportArgument(apdu.EventReportArgument{
		Handle: demoPmStoreHandle, EventType: mds.EventTypeMdcNotiSegmentData, Info: segInfo,
	})}
	segEventFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &segEvent})

	rlreFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceRLRE})

	return []mocktransport.Step{
		mocktransport.Send(nil),
		mocktransport.Reply(aareFrame),
		mocktransport.Reply(configEventFrame),
		mocktransport.Send(nil),
		mocktransport.Send(nil),
		mocktransport.Reply(mdsRespFrame),
		mocktransport.Send(nil),
		mocktransport.Reply(pmRespFrame),
		mocktransport.Send(nil),
		mocktransport.Reply(actionRespFrame),
		mocktransport.Reply(segEventFrame),
		mocktransport.Send(nil),
		mocktransport.Send(nil),
		mocktransport.Reply(rlreFrame),
	}
}

func TestDownloadHappyPath(t *testing.T) {
	ep := newScriptedEndpoints(t, happyPathScript(t))
	sess := New(DefaultConfig(), nil)

	readings, err := sess.Download(context.Background(), ep)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	require.Equal(t, uint32(0), readings[0].SequenceIndex)
	require.EqualValues(t, 1735128000, readings[0].Epoch)
	require.EqualValues(t, 95, readings[0].MgDl)
	require.InDelta(t, 5.277778, readings[0].MmolL, 0.0001)
	require.Equal(t, 0, ep.Remaining())
}

func TestDownloadRejectedAssociation(t *testing.T) {
	aareFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceAARE, Body: []byte{0x00, 0x02}}) // rejected-permanent
	ep := newScriptedEndpoints(t, []mocktransport.Step{
		mocktransport.Send(nil),
		mocktransport.Reply(aareFrame),
	})
	sess := New(DefaultConfig(), nil)

	readings, err := sess.Download(context.Background(), ep)
	require.Error(t, err)
	require.Empty(t, readings)
	var rejected *assoc.AssociationRejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, "permanent", rejected.Reason)
}

// TestDownloadTimeoutOnRecv replays §8 scenario 5 literally: the AARE
// exchange succeeds, but the second Recv — waiting on the device's
// MDC_NOTI_CONFIG notification — times out. Per §7's propagation policy
// the SM attempts one orderly RLRQ before giving up; here the RLRE wait
// also times out, so it falls back to ABRT.
func TestDownloadTimeoutOnRecv(t *testing.T) {
	aareFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceAARE, Body: []byte{0x00, 0x01}})

	ep := newScriptedEndpoints(t, []mocktransport.Step{
		mocktransport.Send(nil), // AARQ
		mocktransport.Reply(aareFrame),
		mocktransport.ReplyErr(transport.ErrIoTimeout), // second Recv: waiting on MDC_NOTI_CONFIG
		mocktransport.Send(nil),                        // RLRQ sent by the best-effort close
		mocktransport.ReplyErr(transport.ErrIoTimeout), // RLRE wait also times out
		mocktransport.Send(nil),                        // close gives up on RLRE and falls back to ABRT
	})
	sess := New(DefaultConfig(), nil)

	readings, err := sess.Download(context.Background(), ep)
	require.ErrorIs(t, err, transport.ErrIoTimeout)
	require.Empty(t, readings)
	require.Equal(t, 0, ep.Remaining())
}

func TestDownloadUnknownObjectClass(t *testing.T) {
	aareFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceAARE, Body: []byte{0x00, 0x01}})
	cr := mds.ConfigReport{Objects: apdu.ObjectList{Entries: []apdu.ObjectEntry{{Class: mds.MocVmsMdsSimp, Handle: 0}}}}
	configEvent := apdu.DataApdu{InvokeID: 0x8001, Choice: apdu.DataChoiceEventReportInvoke, Body: apdu.EncodeEventReportArgument(apdu.EventReportArgument{
		Handle: 0, EventType: mds.EventTypeMdcNotiConfig, Info: mds.EncodeConfigReport(cr),
	})}
	configEventFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &configEvent})
	mdsResp := apdu.DataApdu{InvokeID: 1, Choice: apdu.DataChoiceGetResponse, Body: apdu.EncodeGetResult(apdu.GetResult{
		Handle: 0,
		Attributes: apdu.AttributeList{Attributes: []apdu.Attribute{
			{AttributeID: mds.AttrSysType, Value: []byte{0, 0, 0, 1}},
			{AttributeID: mds.AttrTimeAbs, Value: demoAbsTime},
		}},
	})}
	mdsRespFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &mdsResp})
	rlreFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceRLRE})

	ep := newScriptedEndpoints(t, []mocktransport.Step{
		mocktransport.Send(nil),
		mocktransport.Reply(aareFrame),
		mocktransport.Reply(configEventFrame),
		mocktransport.Send(nil),
		mocktransport.Send(nil),
		mocktransport.Reply(mdsRespFrame),
		mocktransport.Send(nil), // RLRQ from best-effort close
		mocktransport.Reply(rlreFrame),
	})
	sess := New(DefaultConfig(), nil)

	readings, err := sess.Download(context.Background(), ep)
	require.ErrorIs(t, err, mds.ErrUnexpectedConfig)
	require.Empty(t, readings)
}

// TestDownloadCancellation verifies §5's cancellation contract: once the
// caller's context is cancelled, the next I/O turn that polls cancelCheck
// (RecvEvent, waiting on the device's MDC_NOTI_CONFIG notification here)
// abandons the wait, performs an orderly RLRQ/RLRE, and returns
// ErrCancelled instead of a normal result — without ever sending the GET
// MDS request that would otherwise follow association.
func TestDownloadCancellation(t *testing.T) {
	aareFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceAARE, Body: []byte{0x00, 0x01}})
	rlreFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceRLRE})

	ep := newScriptedEndpoints(t, []mocktransport.Step{
		mocktransport.Send(nil), // AARQ
		mocktransport.Reply(aareFrame),
		mocktransport.Send(nil), // RLRQ, from the cancellation-triggered Close
		mocktransport.Reply(rlreFrame),
	})
	sess := New(DefaultConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	readings, err := sess.Download(ctx, ep)
	require.True(t, errors.Is(err, assoc.ErrCancelled))
	require.Empty(t, readings)
	require.Equal(t, 0, ep.Remaining())
}

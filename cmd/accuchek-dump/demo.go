package main

import (
	"accuchek/phd-go/pkg/apdu"
	"accuchek/phd-go/pkg/mds"
	"accuchek/phd-go/pkg/measurement"
	"accuchek/phd-go/pkg/transport/mocktransport"
)

// demoScript builds the §8 scenario-1 happy-path transcript: associate,
// accept the device's unknown-config notification, GET MDS, GET
// PM-Store, trigger and read back one segment carrying a single 95
// mg/dL reading, then close. It exists so this binary has something to
// run without a real device attached; pkg/session/session_test.go
// exercises the same shape of script directly against the library.
func demoScript() []mocktransport.Step {
	const pmStoreHandle uint16 = 1
	absTime := []byte{0x20, 0x24, 0x12, 0x25, 0x12, 0x00, 0x00, 0x00}

	aareFrame := apdu.Encode(apdu.Apdu{
		Choice: apdu.ChoiceAARE,
		Body:   []byte{0x00, 0x01}, // result = accepted-unknown-config
	})

	configReport := mds.ConfigReport{
		ConfigID: 0x1234,
		Objects: apdu.ObjectList{Entries: []apdu.ObjectEntry{
			{Class: mds.MocVmoPmStore, Handle: pmStoreHandle},
		}},
	}
	configEvent := apdu.DataApdu{
		InvokeID: 0x8001,
		Choice:   apdu.DataChoiceEventReportInvoke,
		Body: apdu.EncodeEventReportArgument(apdu.EventReportArgument{
			Handle:    0,
			EventType: mds.EventTypeMdcNotiConfig,
			Info:      mds.EncodeConfigReport(configReport),
		}),
	}
	configEventFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &configEvent})

	mdsAttrs := apdu.AttributeList{Attributes: []apdu.Attribute{
		{AttributeID: mds.AttrSysType, Value: []byte{0x00, 0x00, 0x00, 0x01}},
		{AttributeID: mds.AttrTimeAbs, Value: absTime},
		{AttributeID: mds.AttrIDModel, Value: []byte("Accu-Chek Demo")},
	}}
	mdsResp := apdu.DataApdu{
		InvokeID: 1,
		Choice:   apdu.DataChoiceGetResponse,
		Body:     apdu.EncodeGetResult(apdu.GetResult{Handle: 0, Attributes: mdsAttrs}),
	}
	mdsRespFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &mdsResp})

	pmStoreAttrs := apdu.AttributeList{Attributes: []apdu.Attribute{
		{AttributeID: mds.AttrNumSeg, Value: []byte{0x00, 0x01}},
	}}
	pmStoreResp := apdu.DataApdu{
		InvokeID: 3,
		Choice:   apdu.DataChoiceGetResponse,
		Body:     apdu.EncodeGetResult(apdu.GetResult{Handle: pmStoreHandle, Attributes: pmStoreAttrs}),
	}
	pmStoreRespFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &pmStoreResp})

	actionResp := apdu.DataApdu{
		InvokeID: 5,
		Choice:   apdu.DataChoiceActionResult,
		Body:     apdu.EncodeActionResult(apdu.ActionResult{Handle: pmStoreHandle, ActionType: mds.ActionTypeSegTrigXfer}),
	}
	actionRespFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &actionResp})

	entry := measurement.Entry{
		HasAbsTime: true,
		AbsTime:    absTime,
		ValueKind:  measurement.ValueKindSFLOAT,
		RawValue:   0x005F, // 95
		UnitCode:   mds.UnitMilliGPerDL,
	}
	segInfo := measurement.EncodeSegmentDataEvent(measurement.SegmentDataEvent{
		SegmentID:  0,
		Final:      true,
		EntryCount: 1,
		Entries:    measurement.EncodeEntry(entry),
	})
	segEvent := apdu.DataApdu{
		InvokeID: 0x8002,
		Choice:   apdu.DataChoiceEventReportInvoke,
		Body: apdu.EncodeEventReportArgument(apdu.EventReportArgument{
			Handle:    pmStoreHandle,
			EventType: mds.EventTypeMdcNotiSegmentData,
			Info:      segInfo,
		}),
	}
	segEventFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &segEvent})

	rlreFrame := apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceRLRE})

	return []mocktransport.Step{
		mocktransport.Send(nil), // AARQ
		mocktransport.Reply(aareFrame),
		mocktransport.Reply(configEventFrame),
		mocktransport.Send(nil), // confirm config
		mocktransport.Send(nil), // GET MDS
		mocktransport.Reply(mdsRespFrame),
		mocktransport.Send(nil), // GET PM-Store
		mocktransport.Reply(pmStoreRespFrame),
		mocktransport.Send(nil), // TRIG_SEGMENT_DATA_XFER
		mocktransport.Reply(actionRespFrame),
		mocktransport.Reply(segEventFrame),
		mocktransport.Send(nil), // confirm segment event
		mocktransport.Send(nil), // RLRQ
		mocktransport.Reply(rlreFrame),
	}
}

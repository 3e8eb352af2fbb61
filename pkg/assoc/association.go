package assoc

import (
	"fmt"
	"time"

	"accuchek/phd-go/pkg/apdu"
	"accuchek/phd-go/internal/logger"
	"accuchek/phd-go/pkg/mds"
	"accuchek/phd-go/pkg/transport"
)

// protocolVersion20601 is the only protocol version this driver advertises
// in AARQ, per §4.3.
const protocolVersion20601 uint32 = 20601

// encodingRulesMDER selects MDER encoding in AARQ's association-information.
const encodingRulesMDER uint16 = 0x8000

// nomenclatureVersion1 and functionalUnitsNone/systemTypeManager mirror
// the fixed association parameters §4.3 specifies.
const (
	nomenclatureVersion1    uint32 = 1
	functionalUnitsNone     uint32 = 0
	systemTypeManager       uint32 = 0x00000001
	mdsHandle               uint16 = 0
)

// Association drives one PHD session's lifecycle: AARQ/AARE, the
// MDC_NOTI_CONFIG handshake, subsequent GET/action/event exchanges, and
// an orderly RLRQ/RLRE close (§4.3). It generalizes the teacher's
// pkg/master session object down to the single outstanding-request,
// single-goroutine cooperative loop §5/§9 require: there is no
// background read loop or pendingResp channel here, only a direct
// blocking Recv on the turn the caller is waiting for.
type Association struct {
	transport *transport.FrameTransport
	log       logger.Logger

	state        State
	nextInvokeID uint16

	systemID    []byte
	timeout     time.Duration
	knownConfig map[uint16]mds.ConfigReport

	peerSystemID      []byte
	config            mds.ConfigReport
	associatedAt      time.Time
	lastEventInvokeID uint16

	// cancelCheck, when set, is polled between I/O turns (§5). A true
	// result makes the next Get/Action/RecvEvent call abandon its wait,
	// perform an orderly Close, and return ErrCancelled instead of the
	// normal result.
	cancelCheck func() bool
}

// SetCancelCheck installs f as the cancellation probe polled between I/O
// turns. Passing nil disables cancellation checking.
func (a *Association) SetCancelCheck(f func() bool) {
	a.cancelCheck = f
}

// checkCancelled reports whether the caller has signalled cancellation,
// tearing the association down with an orderly Close if so.
func (a *Association) checkCancelled() bool {
	if a.cancelCheck == nil || !a.cancelCheck() {
		return false
	}
	a.log.Info("assoc: cancellation observed between I/O turns, closing")
	_ = a.Close()
	return true
}

// New creates an Association over t. systemID is the host identifier
// advertised in AARQ (any stable 8-byte value; all-zero is acceptable,
// §4.3). knownConfig is the core's built-in configuration-report table —
// always empty in this driver (§4.3, §9, §10.4) but threaded through so
// the Operating(known-config) branch is reachable, not dead, code.
func New(t *transport.FrameTransport, systemID []byte, knownConfig map[uint16]mds.ConfigReport, log logger.Logger) *Association {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if knownConfig == nil {
		knownConfig = map[uint16]mds.ConfigReport{}
	}
	return &Association{
		transport:    t,
		log:          log,
		state:        StateUnassociated,
		nextInvokeID: 1,
		systemID:     systemID,
		timeout:      transport.DefaultTimeout,
		knownConfig:  knownConfig,
	}
}

// State returns the current lifecycle state.
func (a *Association) State() State { return a.state }

// Config returns the resolved ConfigReport. Valid only once State() is
// StateOperating.
func (a *Association) Config() mds.ConfigReport { return a.config }

// PeerSystemID returns the system-id the agent advertised in AARE, if any.
func (a *Association) PeerSystemID() []byte { return a.peerSystemID }

// AssociatedAt returns the time Open completed successfully.
func (a *Association) AssociatedAt() time.Time { return a.associatedAt }

func (a *Association) allocInvokeID() uint16 {
	id := a.nextInvokeID
	a.nextInvokeID += 2
	return id
}

// Open drives Unassociated through Associating to Operating: it sends
// AARQ, interprets AARE, and — on accepted-unknown-config, the branch
// this driver always takes per §9's "no built-in configs" note — waits
// for and confirms the device's MDC_NOTI_CONFIG event before returning.
func (a *Association) Open() error {
	a.state = StateAssociating

	req := apdu.AARQ{
		ProtocolVersion:     protocolVersion20601,
		EncodingRules:       encodingRulesMDER,
		NomenclatureVersion: nomenclatureVersion1,
		FunctionalUnits:     functionalUnitsNone,
		SystemType:          systemTypeManager,
		SystemID:            a.systemID,
		DevConfigID:         mds.DevConfigIDExtended,
	}
	if err := a.transport.Send(apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceAARQ, Body: apdu.EncodeAARQ(req)})); err != nil {
		a.state = StateTerminated
		return err
	}

	frame, err := a.transport.Recv()
	if err != nil {
		return a.failAssociating(err)
	}
	reply, err := apdu.Parse(frame)
	if err != nil {
		return a.failAssociating(err)
	}
	if reply.Choice == apdu.ChoiceABRT {
		a.state = StateTerminated
		return &UnexpectedApduError{Got: reply.Choice.String(), Expected: apdu.ChoiceAARE.String()}
	}
	if reply.Choice != apdu.ChoiceAARE {
		a.state = StateTerminated
		return &UnexpectedApduError{Got: reply.Choice.String(), Expected: apdu.ChoiceAARE.String()}
	}

	aare, err := apdu.ParseAARE(reply.Body, protocolVersion20601)
	if err != nil {
		return a.failAssociating(err)
	}
	a.peerSystemID = aare.SystemID
	if len(aare.SystemID) > 0 {
		a.log = a.log.WithPeer(aare.SystemID)
	}

	switch aare.Result {
	case apdu.ResultAccepted:
		cr, ok := a.knownConfig[aare.DevConfigID]
		if !ok {
			// The device claimed a known config-id but this driver's
			// table doesn't carry it (it never does, §9) — fall back to
			// the unknown-config handshake exactly as if the device had
			// said so itself.
			return a.awaitConfigNotification()
		}
		a.config = cr
		a.state = StateOperating
		a.associatedAt = time.Now()
		return nil

	case apdu.ResultAcceptedUnknownConfig:
		return a.awaitConfigNotification()

	case apdu.ResultRejectedPermanent:
		a.state = StateTerminated
		return &AssociationRejectedError{Reason: "permanent"}

	case apdu.ResultRejectedTransient:
		a.state = StateTerminated
		return &AssociationRejectedError{Reason: "transient"}

	default:
		a.state = StateTerminated
		return &AssociationRejectedError{Reason: fmt.Sprintf("unknown result 0x%04x", uint16(aare.Result))}
	}
}

// awaitConfigNotification waits for the device's Confirmed-Event-Report
// carrying MDC_NOTI_CONFIG (object handle 0), records the ConfigReport,
// confirms it with accepted-config, and transitions to Operating.
func (a *Association) awaitConfigNotification() error {
	ev, err := a.RecvEvent()
	if err != nil {
		return a.failAssociating(err)
	}
	if ev.EventType != mds.EventTypeMdcNotiConfig {
		return a.failAssociating(&UnexpectedApduError{Got: fmt.Sprintf("event-type 0x%04x", ev.EventType), Expected: "MDC_NOTI_CONFIG"})
	}

	cr, err := mds.ParseConfigReport(ev.Info)
	if err != nil {
		return a.failAssociating(err)
	}

	if err := a.ConfirmEvent(ev, mds.ConfigResultAccepted); err != nil {
		return a.failAssociating(err)
	}

	a.config = cr
	a.state = StateOperating
	a.associatedAt = time.Now()
	return nil
}

// failAssociating reports err after attempting one orderly disassociation,
// per §7's blanket propagation policy ("the SM attempts an orderly
// disassociation before returning") — covering errors that occur after
// AARQ has gone out but before the session reaches Operating, e.g. a
// timeout while waiting for the device's MDC_NOTI_CONFIG notification
// (§8 scenario 5). If RecvEvent already drove the state to Terminated
// (an ABRT, or a cancellation that closed inline) there is nothing further
// to close.
func (a *Association) failAssociating(err error) error {
	if a.state != StateTerminated {
		_ = a.Close()
	}
	a.log.SessionFatal(err)
	return err
}

// RecvEvent blocks for the next frame and parses it as a device-initiated
// Confirmed-Event-Report. It does not confirm the event; callers must
// call ConfirmEvent once they've consumed Info.
func (a *Association) RecvEvent() (apdu.EventReportArgument, error) {
	if a.checkCancelled() {
		return apdu.EventReportArgument{}, ErrCancelled
	}
	frame, err := a.transport.Recv()
	if err != nil {
		return apdu.EventReportArgument{}, err
	}
	parsed, err := apdu.Parse(frame)
	if err != nil {
		return apdu.EventReportArgument{}, err
	}
	if parsed.Choice == apdu.ChoiceABRT {
		a.state = StateTerminated
		return apdu.EventReportArgument{}, &UnexpectedApduError{Got: "ABRT", Expected: "PRST/confirmed-event-report"}
	}
	if parsed.Choice != apdu.ChoicePRST || parsed.Data == nil || parsed.Data.Choice != apdu.DataChoiceEventReportInvoke {
		return apdu.EventReportArgument{}, &UnexpectedApduError{Got: parsed.Choice.String(), Expected: "PRST/roiv-cmip-confirmed-event-report"}
	}
	ev, err := apdu.ParseEventReportArgument(parsed.Data.Body)
	if err != nil {
		return apdu.EventReportArgument{}, err
	}
	a.lastEventInvokeID = parsed.Data.InvokeID
	return ev, nil
}

// ConfirmEvent sends the host's rors-cmip-confirmed-event-report
// acknowledging ev, echoing the invoke-id the device used on the
// original event (§4.3's "device-initiated invoke-ids are arbitrary and
// echoed back on response").
func (a *Association) ConfirmEvent(ev apdu.EventReportArgument, result uint16) error {
	resp := apdu.EventReportResult{Handle: ev.Handle, EventType: ev.EventType, Result: result}
	data := apdu.DataApdu{InvokeID: a.lastEventInvokeID, Choice: apdu.DataChoiceEventReportResult, Body: apdu.EncodeEventReportResult(resp)}
	return a.transport.Send(apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &data}))
}

// Get issues a roiv-cmip-get against handle, requesting attrIDs (empty
// means "all attributes", per §4.4's GET MDS call) and waits for the
// matching rors-cmip-get.
func (a *Association) Get(handle uint16, attrIDs []uint16) (apdu.AttributeList, error) {
	invokeID := a.allocInvokeID()
	arg := apdu.GetArgument{Handle: handle, AttributeIDs: attrIDs}
	req := apdu.DataApdu{InvokeID: invokeID, Choice: apdu.DataChoiceGetInvoke, Body: apdu.EncodeGetArgument(arg)}
	if err := a.transport.Send(apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &req})); err != nil {
		return apdu.AttributeList{}, err
	}

	data, err := a.sendAndWaitRecv(invokeID, apdu.DataChoiceGetResponse)
	if err != nil {
		return apdu.AttributeList{}, err
	}
	result, err := apdu.ParseGetResult(data.Body)
	if err != nil {
		return apdu.AttributeList{}, err
	}
	return result.Attributes, nil
}

// Action issues a roiv-cmip-confirmed-action against handle and waits for
// the matching rors-cmip-confirmed-action.
func (a *Association) Action(handle, actionType uint16, info []byte) (apdu.ActionResult, error) {
	invokeID := a.allocInvokeID()
	arg := apdu.ActionArgument{Handle: handle, ActionType: actionType, Info: info}
	req := apdu.DataApdu{InvokeID: invokeID, Choice: apdu.DataChoiceActionInvoke, Body: apdu.EncodeActionArgument(arg)}
	if err := a.transport.Send(apdu.Encode(apdu.Apdu{Choice: apdu.ChoicePRST, Data: &req})); err != nil {
		return apdu.ActionResult{}, err
	}

	data, err := a.sendAndWaitRecv(invokeID, apdu.DataChoiceActionResult)
	if err != nil {
		return apdu.ActionResult{}, err
	}
	return apdu.ParseActionResult(data.Body)
}

// sendAndWaitRecv blocks for the response to a request already sent under
// invokeID, expecting DataApdu choice want. A spontaneous event arriving
// first is processed (confirmed with a generic accepted result) before
// the wait for the real response resumes, per §5's ordering rule.
func (a *Association) sendAndWaitRecv(invokeID uint16, want apdu.DataChoice) (apdu.DataApdu, error) {
	for {
		if a.checkCancelled() {
			return apdu.DataApdu{}, ErrCancelled
		}
		frame, err := a.transport.Recv()
		if err != nil {
			return apdu.DataApdu{}, err
		}
		parsed, err := apdu.Parse(frame)
		if err != nil {
			return apdu.DataApdu{}, err
		}
		if parsed.Choice == apdu.ChoiceABRT {
			a.state = StateTerminated
			return apdu.DataApdu{}, &UnexpectedApduError{Got: "ABRT", Expected: want.String()}
		}
		if parsed.Choice != apdu.ChoicePRST || parsed.Data == nil {
			return apdu.DataApdu{}, &UnexpectedApduError{Got: parsed.Choice.String(), Expected: "PRST"}
		}

		if parsed.Data.Choice == apdu.DataChoiceEventReportInvoke {
			ev, err := apdu.ParseEventReportArgument(parsed.Data.Body)
			if err != nil {
				return apdu.DataApdu{}, err
			}
			a.lastEventInvokeID = parsed.Data.InvokeID
			if err := a.ConfirmEvent(ev, mds.ConfigResultAccepted); err != nil {
				return apdu.DataApdu{}, err
			}
			continue
		}

		if parsed.Data.Choice != want || parsed.Data.InvokeID != invokeID {
			return apdu.DataApdu{}, &UnexpectedApduError{Got: parsed.Data.Choice.String(), Expected: want.String()}
		}
		return *parsed.Data, nil
	}
}

// Close performs the orderly disassociation of §4.3: RLRQ(normal), then
// wait up to the timeout for RLRE. On timeout, it sends ABRT instead and
// still reports success reaching Terminated — the spec treats a timed-out
// close as "send ABRT and transition to Terminated", not as an error the
// caller must handle, so Close itself never returns the timeout.
func (a *Association) Close() error {
	a.state = StateDisassociating

	req := apdu.RLRQ{Reason: apdu.ReleaseReasonNormal}
	if err := a.transport.Send(apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceRLRQ, Body: apdu.EncodeRLRQ(req)})); err != nil {
		a.state = StateTerminated
		return err
	}

	frame, err := a.transport.Recv()
	if err != nil {
		a.log.Warn("assoc: RLRE wait failed (%v), sending ABRT", err)
		_ = a.transport.Send(apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceABRT, Body: []byte{0x00, 0x00}}))
		a.state = StateTerminated
		return nil
	}

	parsed, err := apdu.Parse(frame)
	if err != nil {
		a.state = StateTerminated
		return err
	}
	if parsed.Choice != apdu.ChoiceRLRE && parsed.Choice != apdu.ChoiceABRT {
		a.state = StateTerminated
		return &UnexpectedApduError{Got: parsed.Choice.String(), Expected: apdu.ChoiceRLRE.String()}
	}

	a.state = StateTerminated
	return nil
}

// Abort tears the session down immediately by sending ABRT and moving to
// Terminated, without an RLRQ/RLRE exchange. Cancellation between I/O
// turns (§5) does not use Abort; it goes through Close.
func (a *Association) Abort() error {
	err := a.transport.Send(apdu.Encode(apdu.Apdu{Choice: apdu.ChoiceABRT, Body: []byte{0x00, 0x00}}))
	a.state = StateTerminated
	return err
}

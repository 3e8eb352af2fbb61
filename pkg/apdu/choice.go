// Package apdu implements the IEEE 11073-20601 APDU codec: the outer
// association/release/abort envelope and the nested DataApdu that PRST
// frames carry.
package apdu

// Choice identifies the outer APDU type.
type Choice uint16

// Outer APDU choices.
const (
	ChoiceAARQ Choice = 0xE200 // association request
	ChoiceAARE Choice = 0xE300 // association response
	ChoiceRLRQ Choice = 0xE400 // release request
	ChoiceRLRE Choice = 0xE500 // release response
	ChoiceABRT Choice = 0xE600 // abort
	ChoicePRST Choice = 0xE700 // presentation (data-bearing)
)

// String returns a human-readable name for the choice.
func (c Choice) String() string {
	switch c {
	case ChoiceAARQ:
		return "AARQ"
	case ChoiceAARE:
		return "AARE"
	case ChoiceRLRQ:
		return "RLRQ"
	case ChoiceRLRE:
		return "RLRE"
	case ChoiceABRT:
		return "ABRT"
	case ChoicePRST:
		return "PRST"
	default:
		return "Unknown"
	}
}

// DataChoice identifies the inner DataApdu type carried by a PRST.
type DataChoice uint16

// Inner DataApdu choices.
const (
	DataChoiceGetInvoke          DataChoice = 0x0103 // roiv-cmip-get
	DataChoiceGetResponse        DataChoice = 0x0203 // rors-cmip-get
	DataChoiceEventReportInvoke  DataChoice = 0x0101 // roiv-cmip-confirmed-event-report
	DataChoiceEventReportResult  DataChoice = 0x0201 // rors-cmip-confirmed-event-report
	DataChoiceActionInvoke       DataChoice = 0x0107 // roiv-cmip-confirmed-action
	DataChoiceActionResult       DataChoice = 0x0207 // rors-cmip-confirmed-action
	DataChoiceError              DataChoice = 0x0501 // roer
	DataChoiceReject             DataChoice = 0x0601 // rorj
)

// String returns a human-readable name for the data choice.
func (d DataChoice) String() string {
	switch d {
	case DataChoiceGetInvoke:
		return "roiv-cmip-get"
	case DataChoiceGetResponse:
		return "rors-cmip-get"
	case DataChoiceEventReportInvoke:
		return "roiv-cmip-confirmed-event-report"
	case DataChoiceEventReportResult:
		return "rors-cmip-confirmed-event-report"
	case DataChoiceActionInvoke:
		return "roiv-cmip-confirmed-action"
	case DataChoiceActionResult:
		return "rors-cmip-confirmed-action"
	case DataChoiceError:
		return "roer"
	case DataChoiceReject:
		return "rorj"
	default:
		return "Unknown"
	}
}

// Association result codes carried by AARE.
type AssocResult uint16

const (
	ResultAccepted               AssocResult = 0x0000
	ResultAcceptedUnknownConfig  AssocResult = 0x0001
	ResultRejectedPermanent      AssocResult = 0x0002
	ResultRejectedTransient      AssocResult = 0x0003
)

// String returns a human-readable name for the association result.
func (r AssocResult) String() string {
	switch r {
	case ResultAccepted:
		return "accepted"
	case ResultAcceptedUnknownConfig:
		return "accepted-unknown-config"
	case ResultRejectedPermanent:
		return "rejected-permanent"
	case ResultRejectedTransient:
		return "rejected-transient"
	default:
		return "unknown"
	}
}

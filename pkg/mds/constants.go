// Package mds models the Medical Data Service: the configuration report
// an agent advertises after association, the MDS attributes returned by
// GET MDS, and the PM-Store descriptors the measurement decoder needs to
// read a segment out. Constant values are grounded on
// original_source/src/protocol.rs, itself sourced from the Continua/IEEE
// 11073-20601 nomenclature.
package mds

// Object-class ids (MDC_MOC_*), as advertised in a ConfigReport's object
// list.
const (
	MocVmoMetric     uint16 = 4
	MocVmoMetricEnum uint16 = 5
	MocVmoMetricNu   uint16 = 6
	MocVmoMetricSaRt uint16 = 9
	MocScan          uint16 = 16
	MocScanCfg       uint16 = 17
	MocScanCfgEpi    uint16 = 18
	MocScanCfgPeri   uint16 = 19
	MocVmsMdsSimp    uint16 = 37
	MocVmoPmStore    uint16 = 61
	MocPmSegment     uint16 = 62
)

// Attribute ids (MDC_ATTR_*) read out of MDS and PM-Store object entries.
const (
	AttrConfirmMode        uint16 = 2323
	AttrConfirmTimeout     uint16 = 2324
	AttrTransportTimeout   uint16 = 2694
	AttrIDHandle           uint16 = 2337
	AttrIDInstNo           uint16 = 2338
	AttrIDLabelString      uint16 = 2343
	AttrIDModel            uint16 = 2344
	AttrIDPhysio           uint16 = 2347
	AttrIDProdSpecn        uint16 = 2349
	AttrIDType             uint16 = 2351
	AttrMetricStoreCapac   uint16 = 2369
	AttrMsmtStat           uint16 = 2375
	AttrNuValObs           uint16 = 2384
	AttrNumSeg             uint16 = 2385
	AttrOpStat             uint16 = 2387
	AttrPowerStat          uint16 = 2389
	AttrSysID              uint16 = 2436
	AttrSysType            uint16 = 2438
	AttrTimeAbs            uint16 = 2439
	AttrTimeEndSeg         uint16 = 2442
	AttrTimeRel            uint16 = 2447
	AttrTimeStartSeg       uint16 = 2450
	AttrUnitCode           uint16 = 2454
	AttrDevConfigID        uint16 = 2628
	AttrNuValObsBasic      uint16 = 2636
	AttrPmStoreCapab       uint16 = 2637
	AttrPmSegMap           uint16 = 2638
	AttrSegStats           uint16 = 2640
	AttrSegFixedData       uint16 = 2641
	AttrNuValObsSimp       uint16 = 2646
	AttrPmStoreLabelString uint16 = 2647
	AttrPmSegLabelString   uint16 = 2648
)

// Event/action-type ids carried in confirmed-event-report and
// confirmed-action APDUs.
const (
	EventTypeMdcNotiConfig      uint16 = 0x0D1C
	EventTypeMdcNotiSegmentData uint16 = 0x0D21

	ActionTypeSegGetInfo  uint16 = 0x0C0D
	ActionTypeSegGetIDs   uint16 = 0x0C1E
	ActionTypeSegTrigXfer uint16 = 0x0C1C
)

// Measurement-unit codes advertised via AttrUnitCode.
const (
	UnitMilliGPerDL   uint16 = 0x0FF0 // MDC_DIM_MILLI_G_PER_DL, mg/dL
	UnitMilliMolePerL uint16 = 0x0F8E // MDC_DIM_MILLI_MOLE_PER_L, mmol/L
)

// Extended-configuration device-config-id, sent by the host in AARQ.
const DevConfigIDExtended uint16 = 0x4000

// Result codes carried in the host's event-report response confirming a
// device event: accepted-config for a ConfigReport (§4.3); the same value
// is sent when confirming segment-data and other spontaneous events.
const (
	ConfigResultAccepted uint16 = 0x0000
)

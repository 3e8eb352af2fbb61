package mds

// nameOf returns a human-readable MDC nomenclature name for id, when
// known. It backs the diagnostic text on ErrUnexpectedConfig so a config
// report from a meter revision this driver doesn't fully model still
// produces a readable error instead of a bare hex code, restoring
// original_source/src/protocol.rs's find_mdc_name.
func nameOf(id uint16) (string, bool) {
	switch id {
	case MocVmoMetric:
		return "MDC_MOC_VMO_METRIC", true
	case MocVmoMetricEnum:
		return "MDC_MOC_VMO_METRIC_ENUM", true
	case MocVmoMetricNu:
		return "MDC_MOC_VMO_METRIC_NU", true
	case MocVmoMetricSaRt:
		return "MDC_MOC_VMO_METRIC_SA_RT", true
	case MocScan:
		return "MDC_MOC_SCAN", true
	case MocScanCfg:
		return "MDC_MOC_SCAN_CFG", true
	case MocScanCfgEpi:
		return "MDC_MOC_SCAN_CFG_EPI", true
	case MocScanCfgPeri:
		return "MDC_MOC_SCAN_CFG_PERI", true
	case MocVmsMdsSimp:
		return "MDC_MOC_VMS_MDS_SIMP", true
	case MocVmoPmStore:
		return "MDC_MOC_VMO_PMSTORE", true
	case MocPmSegment:
		return "MDC_MOC_PM_SEGMENT", true
	case AttrNumSeg:
		return "MDC_ATTR_NUM_SEG", true
	case AttrTimeAbs:
		return "MDC_ATTR_TIME_ABS", true
	case AttrTimeRel:
		return "MDC_ATTR_TIME_REL", true
	case AttrUnitCode:
		return "MDC_ATTR_UNIT_CODE", true
	case AttrPmStoreCapab:
		return "MDC_ATTR_PM_STORE_CAPAB", true
	case AttrSegFixedData:
		return "MDC_ATTR_SEG_FIXED_DATA", true
	default:
		return "", false
	}
}

// NameOf is the exported form of nameOf, used by callers that need to
// format diagnostics referring to a raw MDC id (AttributeMissingError's
// message and FindPmStores' ErrUnexpectedConfig text).
func NameOf(id uint16) string {
	if name, ok := nameOf(id); ok {
		return name
	}
	return "unknown"
}

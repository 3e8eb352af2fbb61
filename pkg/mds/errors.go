package mds

import (
	"errors"
	"fmt"
)

// ErrUnexpectedConfig is returned when a ConfigReport's object list
// references object classes the decoder cannot handle — most commonly, no
// MDC_MOC_VMO_PMSTORE entry at all (§4.4, §8 scenario 6).
var ErrUnexpectedConfig = errors.New("mds: unexpected configuration, no usable PM-Store")

// ErrBadConfigNotification is returned when an MDC_NOTI_CONFIG event-info
// payload is too short to carry even its config-id field.
var ErrBadConfigNotification = errors.New("mds: malformed config notification")

// AttributeMissingError reports that a mandatory attribute was absent
// from an MDS or PM-Store attribute list.
type AttributeMissingError struct {
	ID uint16
}

func (e *AttributeMissingError) Error() string {
	return fmt.Sprintf("mds: attribute missing: %s (0x%04x)", NameOf(e.ID), e.ID)
}

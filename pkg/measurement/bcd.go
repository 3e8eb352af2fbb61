package measurement

import (
	"errors"
	"time"
)

// ErrBadAbsoluteTime is returned when an absolute-time attribute is not
// the expected 8-byte BCD layout.
var ErrBadAbsoluteTime = errors.New("measurement: malformed absolute-time attribute")

// AbsoluteTimeLen is the fixed width of the BCD absolute-time attribute:
// century, year, month, day, hour, minute, second, hundredths.
const AbsoluteTimeLen = 8

// DecodeAbsoluteTime decodes an 8-byte BCD absolute-time attribute into
// UNIX seconds. Per SPEC_FULL.md §9, the device reports wall-clock with
// no timezone; this driver treats it as UTC, per the resolved open
// question — callers needing local time apply an external offset.
func DecodeAbsoluteTime(bcd []byte) (int64, error) {
	if len(bcd) != AbsoluteTimeLen {
		return 0, ErrBadAbsoluteTime
	}

	century := bcdByte(bcd[0])
	year := bcdByte(bcd[1])
	month := bcdByte(bcd[2])
	day := bcdByte(bcd[3])
	hour := bcdByte(bcd[4])
	minute := bcdByte(bcd[5])
	second := bcdByte(bcd[6])

	fullYear := int(century)*100 + int(year)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, ErrBadAbsoluteTime
	}

	t := time.Date(fullYear, time.Month(month), int(day), int(hour), int(minute), int(second), 0, time.UTC)
	return t.Unix(), nil
}

// bcdByte decodes one packed-BCD byte (two decimal digits) into its
// integer value.
func bcdByte(b byte) uint8 {
	hi := (b >> 4) & 0x0F
	lo := b & 0x0F
	return hi*10 + lo
}

package measurement

import "errors"

// ErrMissingAbsoluteTime is returned when a segment entry carries only a
// relative-time attribute. Per SPEC_FULL.md §3/§4.5, the decoder MUST
// reject such readings rather than reconstruct an origin time.
var ErrMissingAbsoluteTime = errors.New("measurement: entry has relative-time only, absolute-time is required")

// ErrTruncatedEntry is returned when a segment's declared entry count
// implies more bytes than the buffer actually holds.
var ErrTruncatedEntry = errors.New("measurement: truncated segment entry")

package ots

import "errors"

// Format errors, all produced by the codec and fatal to the current parse
// or write.
var (
	ErrBadMagic           = errors.New("ots: bad magic")
	ErrUnsupportedVersion = errors.New("ots: unsupported version")
	ErrUnknownHashTag     = errors.New("ots: unknown hash tag")
	ErrUnknownOpTag       = errors.New("ots: unknown operation tag")
	ErrUnexpectedEOF      = errors.New("ots: unexpected end of data")
	ErrVaruintOverflow    = errors.New("ots: varuint overflow")
	ErrVarbytesTooLarge   = errors.New("ots: varbytes exceeds maximum size")
	ErrDepthExceeded      = errors.New("ots: maximum tree depth exceeded")
	ErrEmptyTimestamp     = errors.New("ots: timestamp has no branches")
)

// Integrity errors, fatal before any tree walk begins.
var ErrDigestMismatch = errors.New("ots: file digest does not match supplied data")

// Execution errors, reported in-band as a per-path Error result rather
// than thrown.
var ErrUnsupportedOperation = errors.New("ots: operation not supported")

// Stamper errors.
var ErrNoCalendarResponse = errors.New("ots: no calendar server returned a usable response")

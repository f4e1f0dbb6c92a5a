package spacedrep

import "errors"

// Sentinel errors returned by Apply and the Outcome codecs.
// Use errors.Is to check: errors.Is(err, spacedrep.ErrInvalidOutcome)
var (
	ErrInvalidOutcome = errors.New("spacedrep: invalid outcome")
	ErrCorruptState   = errors.New("spacedrep: corrupt scheduling state")
)

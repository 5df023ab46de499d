package models

import "errors"

// Custom errors
var (
	// ErrNotReady indicates the target season has no qualifying plays yet;
	// the prediction result is empty but well-formed.
	ErrNotReady = errors.New("no qualifying plays for the target season yet")

	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrInvalidWeek   = errors.New("week must be between 1 and 22")
	ErrInvalidSeason = errors.New("season must be 1999 or later")
)

package domain

import "errors"

var (
	ErrSendingReplyFailed   = errors.New("failed to send reply")
	ErrEmptySourceSet       = errors.New("no images selected")
	ErrDimensionsUnset      = errors.New("set a width or a height")
	ErrNonPositiveDimension = errors.New("dimensions must be positive integers")
	ErrDimensionTooLarge    = errors.New("dimensions are too large")
	ErrBothDimensions       = errors.New("width and height are both required when auto-scale is off")
	ErrMixedSources         = errors.New("files and urls cannot be mixed in one batch")
	ErrSubmissionInFlight   = errors.New("a resize is already running")
)

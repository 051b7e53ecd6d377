package shift

import "errors"

var (
	ErrInvalidStartTime = errors.New("shift start time must be in HH:mm format")
)

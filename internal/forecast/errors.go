package forecast

import (
	"errors"
	"fmt"
)

// InvalidPatternError reports a malformed recurrence pattern: a
// non-positive interval or an unrecognized frequency. These are user
// input problems and fail fast at the expander.
type InvalidPatternError struct {
	Reason string
}

func (e *InvalidPatternError) Error() string {
	return "invalid recurrence pattern: " + e.Reason
}

// ContractError reports that a caller assembled engine inputs
// incorrectly: a phase referencing the wrong project, a missing horizon
// for a continuous project, and the like. These are integration bugs,
// not user-facing conditions, and callers should not try to recover.
type ContractError struct {
	Msg string
}

func (e *ContractError) Error() string {
	return "engine contract violation: " + e.Msg
}

func contractErrorf(format string, args ...any) error {
	return &ContractError{Msg: fmt.Sprintf(format, args...)}
}

// ErrPhaseModeConflict is returned when an explicit phase is added to a
// project that already has a recurring phase, or vice versa.
var ErrPhaseModeConflict = errors.New("project cannot mix explicit and recurring phases")

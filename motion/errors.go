package motion

import (
	"errors"
	"fmt"
)

// ErrFrameShapeMismatch is returned when the previous and current frames of a
// pair do not share dimensions. It only invalidates that frame pair.
var ErrFrameShapeMismatch = errors.New("frame shape mismatch")

// ErrPatchOutOfBounds is returned when a patch rectangle leaves its frame.
var ErrPatchOutOfBounds = errors.New("patch outside frame bounds")

// ErrNonFiniteSample is returned when float input contains NaN or infinity.
var ErrNonFiniteSample = errors.New("non-finite sample")

// ConfigError describes a Config field that failed validation.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s=%v: %s", e.Field, e.Value, e.Reason)
}

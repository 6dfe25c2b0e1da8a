package onedim

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by capability methods a boundary variant does
// not model, such as asking a symmetry plane for a mass fraction. It marks a
// programming error at the call site, never a recoverable condition.
var ErrUnsupported = errors.New("operation not supported by this boundary type")

// ConfigError reports a boundary configured inconsistently with its domain
// sequence: a missing required neighbor, a composition naming an unknown
// species, a reacting surface with no kinetics evaluator. Detected during
// Init or attachment, before the residual loop can be corrupted.
type ConfigError struct {
	Boundary string // name of the offending domain
	Op       string // operation that failed
	Msg      string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Boundary, e.Op, e.Msg)
}

func configErr(boundary, op, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Boundary: boundary, Op: op, Msg: fmt.Sprintf(format, args...)}
}

package dynamo

import "errors"

// Domain errors for boundary operations. The per-frame core never returns
// errors; these surface from configuration and control commands only.
var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("pendulab: parameter out of valid bounds")

	// ErrUnknownInstance indicates a command referenced an id the registry does not hold.
	ErrUnknownInstance = errors.New("pendulab: unknown instance")

	// ErrDuplicateInstance indicates an add with an id that is already registered.
	ErrDuplicateInstance = errors.New("pendulab: duplicate instance id")

	// ErrUnknownIntegrator indicates an integrator name with no implementation.
	ErrUnknownIntegrator = errors.New("pendulab: unknown integrator")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("pendulab: unknown preset")

	// ErrInvalidColor indicates a color string that could not be parsed.
	ErrInvalidColor = errors.New("pendulab: invalid color")
)

// BoundsError wraps ErrParameterBounds with the offending parameter.
type BoundsError struct {
	Param string
	Value float64
	Range Range
}

func (e *BoundsError) Error() string {
	return e.Param + ": " + ErrParameterBounds.Error() + " " + e.Range.String()
}

func (e *BoundsError) Unwrap() error {
	return ErrParameterBounds
}

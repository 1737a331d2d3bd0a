package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidUnit is returned for a unit ParseUnit does not recognize.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue is returned for negative emission values.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow is returned when a value or result is not finite.
	ErrCalculationOverflow = constError("calculation overflow")
)

package catalog

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for the two failure classes callers must tell apart.
// Compare with errors.Is; the typed errors below match them.
var (
	// ErrDataSource indicates the catalog source is missing, malformed, or
	// lacks required columns. Loading cannot continue.
	ErrDataSource = constError("data source error")

	// ErrInvalidInput indicates a caller-supplied parameter was rejected.
	ErrInvalidInput = constError("invalid input")
)

// DataSourceError describes why a catalog could not be materialized.
type DataSourceError struct {
	// Source is the path or stream name being read.
	Source string
	// Record is the 1-based data record (the header is not counted), or 0
	// when the failure is not tied to a row.
	Record int
	Reason string
	Err    error
}

func (e *DataSourceError) Error() string {
	msg := fmt.Sprintf("catalog %s: %s", e.Source, e.Reason)
	if e.Record > 0 {
		msg = fmt.Sprintf("catalog %s record %d: %s", e.Source, e.Record, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataSource) true for every DataSourceError.
func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }

// InvalidInputError reports a rejected query parameter.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true for every InvalidInputError.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// NewInvalidInput builds an InvalidInputError.
func NewInvalidInput(field, value, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

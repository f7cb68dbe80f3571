package field

import "errors"

// Every message is prefixed with "field: " so it can be grepped in run logs.
// Callers match these with errors.Is; wrapped forms add context only.
var (
	// ErrDimensionMismatch is returned when two fields of different length are
	// combined sample by sample.
	ErrDimensionMismatch = errors.New("field: dimension mismatch")

	// ErrInvalidGrid is returned by frequency-domain queries on a field whose
	// sampling rate was never set.
	ErrInvalidGrid = errors.New("field: sampling rate not set")

	// ErrInvalidRate is returned when a sampling rate or time step is not a
	// positive finite number.
	ErrInvalidRate = errors.New("field: sampling rate must be positive")

	// ErrOddLength is returned by FFTShift for odd-length fields.
	ErrOddLength = errors.New("field: fft shift requires even length")

	// ErrChompRange is returned when Chomp would remove every sample.
	ErrChompRange = errors.New("field: chomp removes all samples")

	// ErrDivideByZero is returned when dividing by a zero scalar.
	ErrDivideByZero = errors.New("field: division by zero")

	// ErrUnknownBackend is returned by BackendByName for unregistered names.
	ErrUnknownBackend = errors.New("field: unknown transform backend")

	// ErrIndexOutOfRange is returned by F and W for indices outside the grid.
	ErrIndexOutOfRange = errors.New("field: index out of range")
)

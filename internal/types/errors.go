package types

import "errors"

var (
	// ErrUnknownSymbol is returned by registry lookups for unregistered symbols.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrInvalidInstrumentType is returned when a model is invoked with an
	// instrument outside its asset class.
	ErrInvalidInstrumentType = errors.New("invalid instrument type")

	// ErrUnsupportedOperation is returned for operations the instrument's
	// asset class forbids, such as setting leverage on a future.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

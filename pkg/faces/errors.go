package faces

import (
	"errors"
	"fmt"
)

// ErrUnknownExpression is returned when parsing a name outside the closed set.
var ErrUnknownExpression = errors.New("unknown expression")

// ErrorKind classifies why an expression failed to load.
type ErrorKind int

const (
	// Missing means the expression file could not be opened.
	Missing ErrorKind = iota
	// WrongSize means the image decoded fine but is not 480x320.
	WrongSize
	// DecodeFailure means the file exists but is not a valid PNG.
	DecodeFailure
)

func (k ErrorKind) String() string {
	switch k {
	case Missing:
		return "missing"
	case WrongSize:
		return "wrong size"
	case DecodeFailure:
		return "decode failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// LoadError reports which expression broke a cache load and why. A load is
// all-or-nothing, so one LoadError means no cache.
type LoadError struct {
	Kind  ErrorKind
	Which Expression
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("faces: %s (%s): %v", e.Which, e.Kind, e.Err)
	}
	return fmt.Sprintf("faces: %s (%s): %s", e.Which, e.Kind, e.Path)
}

func (e *LoadError) Unwrap() error { return e.Err }

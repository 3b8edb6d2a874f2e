package display

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by Present and Clear before Initialize or
// after Close.
var ErrNotInitialized = errors.New("display: backend not initialized")

// InitError reports a backend that failed to come up. The selector treats
// these as "try the next one".
type InitError struct {
	Kind Kind
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("display: init %s: %v", e.Kind, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// TransferError reports a failed frame or fill on an initialized backend.
// The operation is not retried; the caller decides what a dropped frame
// means.
type TransferError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("display: %s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

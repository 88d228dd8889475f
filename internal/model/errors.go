package model

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a queried block or transaction is absent.
var ErrNotFound = errors.New("not found")

// RemoteQueryError wraps a failed call to the blockchain node.
type RemoteQueryError struct {
	Method string
	Err    error
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("remote query %s: %v", e.Method, e.Err)
}

func (e *RemoteQueryError) Unwrap() error {
	return e.Err
}

// StoreWriteError wraps a write rejected by the graph store.
type StoreWriteError struct {
	Operation string
	Err       error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write %s: %v", e.Operation, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// StoreReadError wraps a read that failed on the graph store.
type StoreReadError struct {
	Operation string
	Err       error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("store read %s: %v", e.Operation, e.Err)
}

func (e *StoreReadError) Unwrap() error {
	return e.Err
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSyncNotFound  = errors.New("sync result not found")
	ErrAlreadySynced = errors.New("exchange rate already synced for this date")
)

// FetchError is returned when the rate API could not be reached or answered with a non-2xx status.
type FetchError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch failed: unexpected status %s", e.Status)
	}
	return fmt.Sprintf("fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError is returned when the API body is not valid JSON or lacks the price fields.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode failed: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

type PersistenceOp string

const (
	OpConnect PersistenceOp = "connect"
	OpInsert  PersistenceOp = "insert"
)

// PersistenceError is returned when the connection or the insert statement fails.
type PersistenceError struct {
	Op  PersistenceOp
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed on %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

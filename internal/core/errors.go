package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidCadence     = errors.New("invalid cadence")
	ErrInvalidView        = errors.New("invalid view")
	ErrInvalidLimitPeriod = errors.New("invalid limit period")
	ErrEmptyID            = errors.New("empty id")
	ErrEmptyName          = errors.New("empty name")
	ErrTooLong            = errors.New("too long (max 200 characters)")
)

// CalendarError reports a date input the calendar engine could not interpret.
type CalendarError struct {
	Op    string
	Input string
	Err   error
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("calendar %s %q: %v", e.Op, e.Input, e.Err)
}

func (e *CalendarError) Unwrap() error { return e.Err }

// ValidationError blocks a write; it is surfaced to the caller unchanged.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError wraps a failure returned by a store adapter. The cause is kept opaque.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// WrapStore returns nil for a nil err, otherwise a *StoreError.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err is a validation or calendar input problem.
func IsValidation(err error) bool {
	var ve *ValidationError
	var ce *CalendarError
	return errors.As(err, &ve) || errors.As(err, &ce)
}

package console

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind separates "the page never reached the expected state" from
// "the page reached a state but with the wrong value".
type FailureKind string

const (
	FailureTimeout  FailureKind = "timeout"
	FailureMismatch FailureKind = "mismatch"
)

// ExpectationError 期望断言失败
type ExpectationError struct {
	Kind        FailureKind
	Locator     Locator
	Expectation string // e.g. "toHaveValue", "toBeVisible", "state=hidden"
	Want        string
	Got         string
	Err         error
}

func (e *ExpectationError) Error() string {
	msg := fmt.Sprintf("expect(%s).%s", e.Locator, e.Expectation)
	if e.Want != "" || e.Got != "" {
		msg += fmt.Sprintf(": want %q, got %q", e.Want, e.Got)
	}
	msg += fmt.Sprintf(" [%s]", e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExpectationError) Unwrap() error {
	return e.Err
}

// NewTimeoutError wraps a wait that ran out of budget.
func NewTimeoutError(loc Locator, expectation string, err error) *ExpectationError {
	return &ExpectationError{Kind: FailureTimeout, Locator: loc, Expectation: expectation, Err: err}
}

// NewMismatchError reports a value that settled on something other than want.
func NewMismatchError(loc Locator, expectation, want, got string, err error) *ExpectationError {
	return &ExpectationError{Kind: FailureMismatch, Locator: loc, Expectation: expectation, Want: want, Got: got, Err: err}
}

// IsExpectationFailure reports whether err is a timeout or mismatch raised by
// a page expectation, as opposed to an unexpected error (crash, closed target).
func IsExpectationFailure(err error) bool {
	var ee *ExpectationError
	return errors.As(err, &ee)
}

// IsTimeout reports whether err is an expectation timeout or a bare
// context deadline.
func IsTimeout(err error) bool {
	var ee *ExpectationError
	if errors.As(err, &ee) {
		return ee.Kind == FailureTimeout
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsMismatch reports whether err is a value mismatch.
func IsMismatch(err error) bool {
	var ee *ExpectationError
	return errors.As(err, &ee) && ee.Kind == FailureMismatch
}

package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError reports user input that failed a rule. Code carries a
// stable key (e.g. "maxPassengers") clients can translate.
type ValidationError struct {
	Field string
	Code  string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ValidationErrors groups several field failures from one request.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	switch len(es) {
	case 0:
		return "validation error"
	case 1:
		return es[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", es[0].Error(), len(es)-1)
	}
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// ParseError reports stored data that could not be interpreted, such as a
// trip duration that is not "<h> hours <m> minutes".
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e ParseError) Error() string {
	msg := fmt.Sprintf("cannot parse %s %q", e.Field, e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ParseError) Unwrap() error { return e.Err }

// InvalidArgumentError is returned when a caller passes a value outside
// the accepted set, e.g. an unsupported locale.
type InvalidArgumentError struct {
	Arg   string
	Value string
	Msg   string
}

func (e InvalidArgumentError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Arg, e.Value, e.Msg)
	}
	return fmt.Sprintf("invalid %s %q", e.Arg, e.Value)
}

// PaymentError is a declined payment. Code is the client translation key.
type PaymentError struct {
	Code       string
	Msg        string
	SupportURL string
}

func (e PaymentError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "payment declined"
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	if errors.As(err, &target) {
		return true
	}
	var many ValidationErrors
	return errors.As(err, &many)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsParse(err error) bool {
	var target ParseError
	return errors.As(err, &target)
}

func IsInvalidArgument(err error) bool {
	var target InvalidArgumentError
	return errors.As(err, &target)
}

func IsPayment(err error) bool {
	var target PaymentError
	return errors.As(err, &target)
}

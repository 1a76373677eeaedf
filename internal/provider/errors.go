package provider

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrNotFound      = errors.New("not found")
	ErrStatus        = errors.New("unexpected response status")
	ErrDataIncorrect = errors.New("data incorrect")
)

// NotFoundError reports that an expected element, attribute or payload field
// is absent. Usually means the site markup changed or the episode has no player.
type NotFoundError struct {
	Element string
}

// NotFound builds a *NotFoundError for element.
func NotFound(element string) error {
	return &NotFoundError{Element: element}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element not found: %q", e.Element)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StatusError reports that a response envelope explicitly signalled failure.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status: %q", e.Status)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// DataIncorrectError reports a payload that was present but failed to decode,
// or decoded JSON missing a required key.
type DataIncorrectError struct {
	Detail string
	Err    error
}

// DataIncorrect builds a *DataIncorrectError. err may be nil.
func DataIncorrect(detail string, err error) error {
	return &DataIncorrectError{Detail: detail, Err: err}
}

func (e *DataIncorrectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data incorrect: %s: %v", e.Detail, e.Err)
	}
	return "data incorrect: " + e.Detail
}

func (e *DataIncorrectError) Unwrap() error { return e.Err }

func (e *DataIncorrectError) Is(target error) bool { return target == ErrDataIncorrect }

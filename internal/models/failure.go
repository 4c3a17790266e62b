package models

import "errors"

type FailureKind string

const (
	FailureValidation     FailureKind = "validation"
	FailureNetwork        FailureKind = "network"
	FailureAuth           FailureKind = "auth"
	FailureExternalLookup FailureKind = "external_lookup"
)

// Failure is the user-facing error of every controller operation. Message is
// what gets shown; Err keeps the underlying cause for logs.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func NewValidationFailure(message string) *Failure {
	return &Failure{Kind: FailureValidation, Message: message}
}

func NewNetworkFailure(message string, err error) *Failure {
	return &Failure{Kind: FailureNetwork, Message: message, Err: err}
}

func NewAuthFailure(message string, err error) *Failure {
	return &Failure{Kind: FailureAuth, Message: message, Err: err}
}

func NewExternalLookupFailure(message string, err error) *Failure {
	return &Failure{Kind: FailureExternalLookup, Message: message, Err: err}
}

// FailureKindOf reports the kind of err when it is (or wraps) a Failure.
func FailureKindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

func IsValidationFailure(err error) bool {
	kind, ok := FailureKindOf(err)
	return ok && kind == FailureValidation
}

func IsAuthFailure(err error) bool {
	kind, ok := FailureKindOf(err)
	return ok && kind == FailureAuth
}

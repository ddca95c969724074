package service

import (
	"errors"
	"fmt"

	"github.com/maheshrc27/postflow/internal/models"
)

var (
	ErrNotFound              = errors.New("post not found")
	ErrNoPlatformsConfigured = errors.New("post has no platforms configured")
)

type CredentialErrorKind int

const (
	CredentialMissing CredentialErrorKind = iota
	CredentialExpired
)

// CredentialError is recorded on a platform row when the connection cannot
// be used. Its message tells the owner to reconnect the account.
type CredentialError struct {
	Platform models.PlatformID
	Kind     CredentialErrorKind
}

func (e *CredentialError) Error() string {
	if e.Kind == CredentialExpired {
		return fmt.Sprintf("%s access token has expired. Please reconnect your account.", e.Platform)
	}
	return fmt.Sprintf("%s access token not found. Please reconnect your account.", e.Platform)
}

// PlatformCallError wraps a publisher failure. Error returns the
// publisher's message unchanged so it can be stored as-is.
type PlatformCallError struct {
	Platform models.PlatformID
	Err      error
}

func (e *PlatformCallError) Error() string {
	return e.Err.Error()
}

func (e *PlatformCallError) Unwrap() error {
	return e.Err
}

// SystemError is a repository failure that aborts a publish trigger.
type SystemError struct {
	Op  string
	Err error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

func systemError(op string, err error) error {
	return &SystemError{Op: op, Err: err}
}

// ValidationError reports invalid user input on post writes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Package errors defines the error taxonomy shared by the registry editing
// operations. Every mutating failure carries the step that failed so the
// operator knows whether the registry file or the external package state
// changed.
package errors

import (
	"errors"
	"fmt"
)

// Error types
const (
	// ErrInvalidArgument is returned when an invalid argument is provided
	ErrInvalidArgument = "invalid_argument"

	// ErrCorruptConfig is returned when the registry file exists but cannot
	// be parsed. The original file is never modified or auto-repaired.
	ErrCorruptConfig = "corrupt_config"

	// ErrBackupFailed is returned when the pre-mutation snapshot cannot be
	// taken. No mutation proceeds after this error.
	ErrBackupFailed = "backup_failed"

	// ErrPackageInstallFailed is returned when the external package install
	// step failed. The registry is left untouched.
	ErrPackageInstallFailed = "package_install_failed"

	// ErrRegisterAfterInstallFailed is returned when registration failed
	// after a successful package install. The package remains installed but
	// unregistered; re-running registration does not require reinstalling.
	ErrRegisterAfterInstallFailed = "register_after_install_failed"

	// ErrLockTimeout is returned when the advisory lock on the registry file
	// could not be acquired within the bounded wait.
	ErrLockTimeout = "lock_timeout"
)

// Error represents an error in the application
type Error struct {
	// Type is the error type
	Type string

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error
func NewError(errorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(message string, cause error) *Error {
	return NewError(ErrInvalidArgument, message, cause)
}

// NewCorruptConfigError creates a new corrupt config error
func NewCorruptConfigError(message string, cause error) *Error {
	return NewError(ErrCorruptConfig, message, cause)
}

// NewBackupFailedError creates a new backup failed error
func NewBackupFailedError(message string, cause error) *Error {
	return NewError(ErrBackupFailed, message, cause)
}

// NewPackageInstallFailedError creates a new package install failed error
func NewPackageInstallFailedError(message string, cause error) *Error {
	return NewError(ErrPackageInstallFailed, message, cause)
}

// NewRegisterAfterInstallFailedError creates a new register after install failed error
func NewRegisterAfterInstallFailedError(message string, cause error) *Error {
	return NewError(ErrRegisterAfterInstallFailed, message, cause)
}

// NewLockTimeoutError creates a new lock timeout error
func NewLockTimeoutError(message string, cause error) *Error {
	return NewError(ErrLockTimeout, message, cause)
}

// typeOf extracts the type of an error, unwrapping as needed.
func typeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return typeOf(err) == ErrInvalidArgument
}

// IsCorruptConfig checks if the error is a corrupt config error
func IsCorruptConfig(err error) bool {
	return typeOf(err) == ErrCorruptConfig
}

// IsBackupFailed checks if the error is a backup failed error
func IsBackupFailed(err error) bool {
	return typeOf(err) == ErrBackupFailed
}

// IsPackageInstallFailed checks if the error is a package install failed error
func IsPackageInstallFailed(err error) bool {
	return typeOf(err) == ErrPackageInstallFailed
}

// IsRegisterAfterInstallFailed checks if the error is a register after install failed error
func IsRegisterAfterInstallFailed(err error) bool {
	return typeOf(err) == ErrRegisterAfterInstallFailed
}

// IsLockTimeout checks if the error is a lock timeout error
func IsLockTimeout(err error) bool {
	return typeOf(err) == ErrLockTimeout
}

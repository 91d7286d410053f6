// Package common defines sentinel errors and small helpers shared by the
// DriveBuddy storage and service layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Storage bootstrap errors.
	ErrorUnsupportedDriver = errors.New("unsupported storage driver")
)

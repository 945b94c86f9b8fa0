package models

import "errors"

var (
	// ErrInvalid is wrapped by every Validate failure.
	ErrInvalid = errors.New("invalid input")

	// ErrUnknownRole is returned for a user role outside the known set.
	ErrUnknownRole = errors.New("unknown role")
)

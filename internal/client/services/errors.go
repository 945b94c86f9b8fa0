package services

import "errors"

var (
	// ErrAlreadyProcessed is returned for a trigger known to be processed.
	ErrAlreadyProcessed = errors.New("email trigger already processed")
	ErrNotLoaded        = errors.New("not in the current list")
)

package scheduler

import "errors"

var (
	ErrNoCredentials = errors.New("scheduler credentials are not configured")
	ErrLogin         = errors.New("scheduler login failed")
)

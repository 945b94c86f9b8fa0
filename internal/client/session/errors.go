package session

import "errors"

var ErrNoToken = errors.New("no token")

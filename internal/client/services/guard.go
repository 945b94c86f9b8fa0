package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/recoverydesk/internal/client/api"
)

// Invalidator drops the session after the backend rejected its token.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type guard struct {
	inv Invalidator
}

// check passes err through, invalidating the session on a 401.
func (g guard) check(ctx context.Context, err error) error {
	if err != nil && g.inv != nil && errors.Is(err, api.ErrUnauthorized) {
		g.inv.Invalidate(ctx)
	}
	return err
}

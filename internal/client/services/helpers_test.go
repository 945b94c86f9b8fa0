package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/recoverydesk/internal/apitest"
	"github.com/dmitrijs2005/recoverydesk/internal/client/api"
	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/stretchr/testify/require"
)

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeInvalidator) Invalidate(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeInvalidator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newBackend starts a fake backend and returns a client logged in with role.
func newBackend(t *testing.T, role models.Role) (*apitest.Backend, *api.Client) {
	t.Helper()
	backend, srv := apitest.NewServer(t)
	user := backend.AddUser("tester", "secret", role)

	client, err := api.New(api.Config{Origin: srv.URL, APIBase: "/api", Timeout: 5 * time.Second})
	require.NoError(t, err)
	token := backend.IssueToken(user.ID, time.Hour)
	client.SetTokenSource(api.TokenFunc(func() string { return token }))
	return backend, client
}

func ptr[T any](v T) *T { return &v }

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

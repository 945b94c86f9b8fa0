package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/recoverydesk/internal/apitest"
	"github.com/dmitrijs2005/recoverydesk/internal/client/api"
	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/recoverydesk/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackendScheduler(t *testing.T, password string) (*apitest.Backend, *Scheduler) {
	t.Helper()
	backend, srv := apitest.NewServer(t)
	backend.AddUser("robot", "secret", models.RoleAdmin)

	client, err := api.New(api.Config{Origin: srv.URL, APIBase: "/api", Timeout: 5 * time.Second})
	require.NoError(t, err)
	store := session.NewStore(client, kv.NewMemoryRepository(), nil)
	client.SetTokenSource(store)

	s, err := New(store, client, Config{Username: "robot", Password: password, Interval: time.Hour}, nil)
	require.NoError(t, err)
	return backend, s
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(nil, nil, Config{Username: "robot"}, nil)
	require.ErrorIs(t, err, ErrNoCredentials)

	s, err := New(nil, nil, Config{Username: "robot", Password: "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, s.cfg.Interval)
}

func TestTick_IngestsAndAutoProcesses(t *testing.T) {
	backend, s := newBackendScheduler(t, "secret")
	backend.QueueEmail("alerts@rent.example", "Viatura AA-33-DD", map[string]string{"matricula": "AA-33-DD", "marca": "Seat"})
	backend.QueueEmail("alerts@rent.example", "Viatura AA-44-EE", map[string]string{"matricula": "AA-44-EE", "marca": "Fiat"})

	res, err := s.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Ingested)
	require.NotNil(t, res.Auto)
	assert.Equal(t, 2, res.Auto.Success)
	assert.Zero(t, res.Auto.Failed)
	assert.Equal(t, 1, backend.Hits("POST", "/api/auth/login"))
}

func TestTick_NothingNewSkipsAutoProcess(t *testing.T) {
	backend, s := newBackendScheduler(t, "secret")

	res, err := s.Tick(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.Ingested)
	assert.Nil(t, res.Auto)
	assert.Equal(t, 1, backend.Hits("POST", "/api/email-triggers/check-new"))
	assert.Zero(t, backend.Hits("POST", "/api/email-triggers/auto-process"))
}

func TestTick_LoginFailureEndsTick(t *testing.T) {
	backend, s := newBackendScheduler(t, "wrong")

	_, err := s.Tick(context.Background())
	require.ErrorIs(t, err, ErrLogin)
	assert.Contains(t, err.Error(), "Invalid credentials")
	assert.Zero(t, backend.Hits("POST", "/api/email-triggers/check-new"))
}

func TestTick_CheckNewFailure(t *testing.T) {
	backend, s := newBackendScheduler(t, "secret")
	backend.Override("POST", "/api/email-triggers/check-new", 500, `{"error":"Erro ao verificar emails"}`)

	_, err := s.Tick(context.Background())
	require.ErrorIs(t, err, api.ErrServer)
	assert.Zero(t, backend.Hits("POST", "/api/email-triggers/auto-process"))
}

type okAuth struct{}

func (okAuth) Login(context.Context, string, string) session.Result {
	return session.Result{Success: true}
}

type countingAPI struct {
	mu     sync.Mutex
	checks int
}

func (c *countingAPI) CheckNewEmails(context.Context) (models.CheckNewResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks++
	if c.checks == 1 {
		return models.CheckNewResult{}, errors.New("boom")
	}
	return models.CheckNewResult{Message: "0 emails processados"}, nil
}

func (c *countingAPI) AutoProcess(context.Context) (models.AutoProcessResult, error) {
	return models.AutoProcessResult{}, nil
}

func (c *countingAPI) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checks
}

func TestRun_TicksImmediatelyAndKeepsGoingAfterFailure(t *testing.T) {
	a := &countingAPI{}
	s, err := New(okAuth{}, a, Config{Username: "robot", Password: "x", Interval: 10 * time.Millisecond}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

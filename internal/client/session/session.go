// Package session holds the authenticated identity of the client: the
// bearer token, persisted under TokenKey, and the user it was validated for.
//
// A user is present if and only if a validated token is held. Mutating
// operations (Bootstrap, Login, Logout, Invalidate) are serialized.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/recoverydesk/internal/client/api"
	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/recoverydesk/internal/common"
	"github.com/dmitrijs2005/recoverydesk/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKey is the key of the persisted token in the local store.
const TokenKey = "token"

// Manager is what screens need from a session.
type Manager interface {
	CurrentUser() *models.User
	Login(ctx context.Context, username, password string) Result
	Logout(ctx context.Context)
}

// AuthAPI is the part of the backend the store talks to.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (models.LoginResponse, error)
	Me(ctx context.Context, opts ...api.Option) (models.User, error)
}

// Result is the outcome of Login. Error is set when Success is false.
type Result struct {
	Success bool
	Error   string
	User    *models.User
}

type Store struct {
	api  AuthAPI
	repo kv.Repository
	log  logging.Logger

	// op serializes mutations; mu guards the fields below.
	op      sync.Mutex
	mu      sync.RWMutex
	token   string
	user    *models.User
	loading bool
}

var _ Manager = (*Store)(nil)

func NewStore(a AuthAPI, repo kv.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{api: a, repo: repo, log: log.With("component", "session")}
}

// Bootstrap validates the persisted token, if any, against /auth/me. Any
// failure removes the persisted token and leaves the store unauthenticated.
func (s *Store) Bootstrap(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	raw, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn(ctx, "cannot read persisted token", "error", err)
		s.reset()
		return
	}
	if len(raw) == 0 {
		s.reset()
		return
	}
	token := string(raw)

	user, err := s.api.Me(ctx, api.WithBearer(token))
	if err != nil {
		s.log.Info(ctx, "persisted token rejected", "token", common.MaskToken(token), "error", err)
		s.forget(ctx)
		return
	}

	s.set(token, &user)
	s.log.Debug(ctx, "session restored", "username", user.Username, "role", string(user.Role))
}

// Login never returns a Go error: failures are reported in Result.
func (s *Store) Login(ctx context.Context, username, password string) Result {
	creds := models.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return Result{Error: "username and password are required"}
	}

	s.op.Lock()
	defer s.op.Unlock()

	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		s.log.Info(ctx, "login failed", "username", username, "error", err)
		return Result{Error: loginMessage(err)}
	}

	if err := s.repo.Set(ctx, TokenKey, []byte(resp.Token)); err != nil {
		s.log.Error(ctx, "cannot persist token", "error", err)
		return Result{Error: "login succeeded but the session could not be saved"}
	}

	user := resp.User
	s.set(resp.Token, &user)
	s.log.Info(ctx, "logged in", "username", user.Username, "role", string(user.Role))

	cp := user
	return Result{Success: true, User: &cp}
}

func loginMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
		return apiErr.Message
	}
	return "login failed: " + api.UserMessage(err)
}

// Logout clears the session locally. The backend is not called.
func (s *Store) Logout(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()
	s.forget(ctx)
	s.log.Info(ctx, "logged out")
}

// Invalidate drops a session the backend no longer accepts.
func (s *Store) Invalidate(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()
	if s.Token() == "" {
		return
	}
	s.forget(ctx)
	s.log.Warn(ctx, "session invalidated by the server")
}

func (s *Store) forget(ctx context.Context) {
	if err := s.repo.Delete(ctx, TokenKey); err != nil {
		s.log.Warn(ctx, "cannot delete persisted token", "error", err)
	}
	s.reset()
}

func (s *Store) set(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

func (s *Store) reset() {
	s.set("", nil)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// CurrentUser returns a copy of the user, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// TokenExpiry reads the exp claim without verifying the signature. It is
// informational; the backend remains the authority on validity.
func (s *Store) TokenExpiry() (time.Time, error) {
	token := s.Token()
	if token == "" {
		return time.Time{}, ErrNoToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("token has no exp claim")
	}
	return exp.Time, nil
}

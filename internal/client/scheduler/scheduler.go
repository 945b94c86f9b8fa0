// Package scheduler periodically asks the backend to ingest new emails and,
// when any arrived, to turn pending triggers into cases.
//
// Every tick logs in afresh with the configured admin account, calls
// check-new and then auto-process if the ingested count is positive. A
// failing step is logged and ends the tick; nothing is retried until the
// next one.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/client/session"
	"github.com/dmitrijs2005/recoverydesk/internal/logging"
)

// Authenticator opens the session the API calls run under.
type Authenticator interface {
	Login(ctx context.Context, username, password string) session.Result
}

// API is the part of the backend a tick uses.
type API interface {
	CheckNewEmails(ctx context.Context) (models.CheckNewResult, error)
	AutoProcess(ctx context.Context) (models.AutoProcessResult, error)
}

type Config struct {
	Username string
	Password string
	Interval time.Duration
}

// TickResult is what one tick achieved. Auto is nil when auto-process was
// not called.
type TickResult struct {
	Ingested int
	Auto     *models.AutoProcessResult
}

type Scheduler struct {
	auth Authenticator
	api  API
	cfg  Config
	log  logging.Logger
}

// New validates cfg and returns a Scheduler. A non-positive interval falls
// back to 15 minutes.
func New(auth Authenticator, a API, cfg Config, log logging.Logger) (*Scheduler, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, ErrNoCredentials
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Scheduler{auth: auth, api: a, cfg: cfg, log: log.With("component", "scheduler")}, nil
}

// Run performs a tick immediately and then once per interval until ctx is
// cancelled. Tick failures do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info(ctx, "scheduler started", "interval", s.cfg.Interval.String())

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.Tick(ctx); err != nil && ctx.Err() == nil {
			s.log.Error(ctx, "email check failed", "error", err)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			s.log.Info(context.WithoutCancel(ctx), "scheduler stopped")
			return
		}
	}
}

// Tick runs one login, check-new and optional auto-process cycle.
func (s *Scheduler) Tick(ctx context.Context) (TickResult, error) {
	start := time.Now()
	var res TickResult

	login := s.auth.Login(ctx, s.cfg.Username, s.cfg.Password)
	if !login.Success {
		return res, fmt.Errorf("%w: %s", ErrLogin, login.Error)
	}

	checked, err := s.api.CheckNewEmails(ctx)
	if err != nil {
		return res, fmt.Errorf("check new emails: %w", err)
	}
	res.Ingested = checked.ProcessedCount
	s.log.Info(ctx, "emails checked", "ingested", checked.ProcessedCount, "message", checked.Message)

	if checked.ProcessedCount <= 0 {
		return res, nil
	}

	auto, err := s.api.AutoProcess(ctx)
	if err != nil {
		return res, fmt.Errorf("auto-process: %w", err)
	}
	res.Auto = &auto
	for _, d := range auto.Details {
		if !d.Success {
			s.log.Warn(ctx, "trigger not processed", "trigger_id", d.TriggerID, "message", d.Message)
		}
	}
	s.log.Info(ctx, "auto-process finished", "success", auto.Success, "failed", auto.Failed,
		"elapsed", time.Since(start).String())
	return res, nil
}

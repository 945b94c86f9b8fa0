package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/recoverydesk/internal/buildinfo"
	"github.com/dmitrijs2005/recoverydesk/internal/client/api"
	"github.com/dmitrijs2005/recoverydesk/internal/client/config"
	"github.com/dmitrijs2005/recoverydesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/recoverydesk/internal/client/scheduler"
	"github.com/dmitrijs2005/recoverydesk/internal/client/session"
	"github.com/dmitrijs2005/recoverydesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	client, err := api.New(api.Config{
		Origin:  cfg.Origin,
		APIBase: cfg.APIBase,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	// The scheduler logs in every tick; its token never touches disk.
	store := session.NewStore(client, kv.NewMemoryRepository(), logger)
	client.SetTokenSource(store)

	s, err := scheduler.New(store, client, scheduler.Config{
		Username: cfg.SchedulerUser,
		Password: cfg.SchedulerPassword,
		Interval: cfg.SchedulerInterval,
	}, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	s.Run(ctx)
}

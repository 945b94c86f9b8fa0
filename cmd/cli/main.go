package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/recoverydesk/internal/buildinfo"
	"github.com/dmitrijs2005/recoverydesk/internal/client/cli"
	"github.com/dmitrijs2005/recoverydesk/internal/client/config"
	"github.com/dmitrijs2005/recoverydesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	// The REPL owns stdout; logs go to stderr.
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}

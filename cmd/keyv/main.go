package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/The127/ioc"
	"github.com/the127/keyv/internal/args"
	"github.com/the127/keyv/internal/config"
	"github.com/the127/keyv/internal/logging"
	"github.com/the127/keyv/internal/server"
	"github.com/the127/keyv/internal/services/clock"
	"github.com/the127/keyv/internal/setup"
	"github.com/the127/keyv/internal/utils"
)

func main() {
	args.Init()
	logging.Init()
	defer utils.IgnoreError(logging.Sync)
	config.Init()

	dc := ioc.NewDependencyCollection()

	clockService := clock.NewClockService()
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) clock.Service {
		return clockService
	})

	provider := setup.Store(dc, config.C.Store, clockService)
	setup.Mediator(dc)

	dp := dc.BuildProvider()

	srv := server.Serve(dp, config.C.Server)
	waitForExit()

	logging.Logger.Infof("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(ctx)
	if err != nil {
		logging.Logger.Errorf("failed to shut down server: %s", err)
	}

	err = provider.Close()
	if err != nil {
		logging.Logger.Errorf("failed to close store: %s", err)
	}
}

func waitForExit() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

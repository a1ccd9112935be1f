package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MindProfile/internal/adapters/app/service_provider"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sweepInterval = time.Minute

type App struct {
	ServiceProvider *service_provider.ServiceProvider
}

func New() (*App, error) {
	a := &App{}
	if err := a.initDeps(); err != nil {
		return nil, fmt.Errorf("init deps: %w", err)
	}
	return a, nil
}

// Start runs every enabled front end until SIGINT or SIGTERM, or until one
// of them fails.
func (a *App) Start() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer a.ServiceProvider.Close()

	sp := a.ServiceProvider
	log := sp.Logger()
	g, gctx := errgroup.WithContext(ctx)

	if srv := sp.HTTPServer(); srv != nil {
		g.Go(func() error {
			return srv.Start(gctx)
		})
	}
	if bot := sp.BotRunner(); bot != nil {
		g.Go(func() error {
			bot.Start(gctx)
			return nil
		})
	}
	if sweeper := sp.SessionSweeper(); sweeper != nil {
		g.Go(func() error {
			sweeper.RunSweeper(gctx, sweepInterval)
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		log.Error("application stopped", zap.Error(err))
		return err
	}
	log.Info("application stopped")
	return nil
}

package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run wires all dependencies and blocks until the context is canceled
// or a component fails.
func (a *App) Run(ctx context.Context) error {
	a.Log.Info("starting jyotish-web")

	deps, err := a.initDependencies()
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("starting http server",
			"host", a.Cfg.Server.Host,
			"port", a.Cfg.Server.Port)

		err := deps.HTTPServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		a.Log.Info("starting kafka consumer")
		return deps.KafkaConsumer.Start(gCtx)
	})

	g.Go(func() error {
		return deps.JobScheduler.Start(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.Log.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := deps.HTTPServer.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("failed to shutdown http server", "error", err)
		}
		if err := deps.KafkaConsumer.Close(); err != nil {
			a.Log.Error("failed to close kafka consumer", "error", err)
		}
		if err := deps.KafkaProducer.Close(); err != nil {
			a.Log.Error("failed to close kafka producer", "error", err)
		}
		if err := deps.Cache.Close(); err != nil {
			a.Log.Error("failed to close cache", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			a.Log.Error("failed to close database", "error", err)
		}

		a.Log.Info("application shutdown completed")
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("application error", "error", err)
		return err
	}

	return nil
}

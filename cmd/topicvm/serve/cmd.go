// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/database"
	"github.com/luxfi/database/badgerdb"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"

	dto "github.com/prometheus/client_model/go"

	"github.com/luxfi/topicvm"
	"github.com/luxfi/topicvm/api"
	"github.com/luxfi/topicvm/api/health"
	"github.com/luxfi/topicvm/api/server"
	"github.com/luxfi/topicvm/config"
)

const (
	healthBase  = "health"
	metricsPath = "/metrics"
)

var httpConfig = server.HTTPConfig{
	ReadTimeout:       30 * time.Second,
	ReadHeaderTimeout: 30 * time.Second,
	WriteTimeout:      30 * time.Second,
	IdleTimeout:       120 * time.Second,
}

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Runs the topic API until interrupted",
		Args:  cobra.NoArgs,
		RunE:  serveFunc,
	}
	AddFlags(c.Flags())
	return c
}

func serveFunc(c *cobra.Command, _ []string) error {
	cfg, err := ParseFlags(c.Flags())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", cfg.ListenAddress())
	if err != nil {
		return err
	}
	return Run(ctx, log.NewLogger("topicvm"), cfg, listener)
}

// Run serves the topic API on [listener] until [ctx] is cancelled or the
// server fails.
func Run(ctx context.Context, logger log.Logger, cfg config.Config, listener net.Listener) error {
	db, err := openDatabase(cfg)
	if err != nil {
		_ = listener.Close()
		return err
	}

	registry := metric.NewRegistry()
	vm := topicvm.New(logger)
	if err := vm.Initialize(ctx, cfg, db, registry); err != nil {
		_ = listener.Close()
		return errors.Join(err, db.Close())
	}

	srv, err := newServer(ctx, logger, cfg, listener, registry, vm)
	if err != nil {
		_ = listener.Close()
		return errors.Join(err, vm.Shutdown(context.Background()))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down API server")
		return srv.Shutdown()
	})
	err = g.Wait()
	return errors.Join(err, vm.Shutdown(context.Background()))
}

func newServer(
	ctx context.Context,
	logger log.Logger,
	cfg config.Config,
	listener net.Listener,
	registry metric.Registry,
	vm *topicvm.VM,
) (server.Server, error) {
	srv, err := server.New(logger, listener, cfg.AllowedOrigins, cfg.ShutdownTimeout, registry, httpConfig)
	if err != nil {
		return nil, err
	}
	handlers, err := vm.CreateHandlers(ctx)
	if err != nil {
		return nil, err
	}
	for endpoint, handler := range handlers {
		if err := srv.AddRoute(handler, api.Name, endpoint); err != nil {
			return nil, err
		}
	}
	healthHandler, err := health.NewHandler(logger, vm, cfg.MetricsNamespace, registry)
	if err != nil {
		return nil, err
	}
	if err := srv.AddRoute(healthHandler, healthBase, ""); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled {
		if err := srv.AddPath(metricsPath, promhttp.HandlerFor(newGatherer(registry), promhttp.HandlerOpts{})); err != nil {
			return nil, err
		}
	}
	return srv, nil
}

// openDatabase opens the persistent ledger under the configured data
// directory, or an in-memory ledger when none is set.
func openDatabase(cfg config.Config) (database.Database, error) {
	if cfg.DataDir == "" {
		return memdb.New(), nil
	}
	db, err := badgerdb.New(cfg.DataDir, nil, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", cfg.DataDir, err)
	}
	return db, nil
}

// newGatherer exposes [registry] in the prometheus exposition format.
func newGatherer(registry metric.Registry) prometheus.Gatherer {
	return prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
		families, err := registry.Gather()
		return metric.NativeToDTO(families), err
	})
}

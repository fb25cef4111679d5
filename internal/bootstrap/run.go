package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eduevents/eduevents-hub/config"
)

// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// ServiceOrchestrationConfig contains everything RunServicesWithShutdown runs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// Ready, when non-nil, receives the HTTP listener address once bound.
	Ready chan<- net.Addr
}

// backgroundService describes a startable background component.
type backgroundService struct {
	name  string
	start func(context.Context) error
}

func buildBackgroundServices(cfg *ServiceOrchestrationConfig, logger *slog.Logger) []backgroundService {
	server := NewHTTPServer(cfg.Config.HTTP.Addr, BuildHTTPHandler(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	}))

	services := []backgroundService{{
		name: "http",
		start: func(ctx context.Context) error {
			return ServeHTTP(ctx, server, logger, cfg.Ready)
		},
	}}
	if cfg.Services.Sweeper != nil {
		services = append(services, backgroundService{name: "sweeper", start: cfg.Services.Sweeper.Run})
	}
	return services
}

// RunServicesWithShutdown runs the HTTP server and the sweeper until ctx is
// cancelled, SIGINT/SIGTERM arrives, or one of them fails.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	for _, svc := range buildBackgroundServices(cfg, logger) {
		g.Go(func() error {
			logger.InfoContext(gctx, "background service started", "service", svc.name)
			err := svc.start(gctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorContext(gctx, "service error", "service", svc.name, "error", err)
				return err
			}
			logger.Info(svc.name + " stopped")
			return nil
		})
	}

	err := g.Wait()
	if cerr := cfg.Services.Observability.Close(); cerr != nil {
		logger.Warn("close metrics client", "error", cerr)
	}
	return err
}

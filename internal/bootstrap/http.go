package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/eduevents/eduevents-hub/config"
	httpx "github.com/eduevents/eduevents-hub/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the handlers and the router middleware chain.
func BuildHTTPHandler(cfg *HTTPServerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	svc := cfg.Services
	sess := appCfg.Sessions

	ui := &httpx.UIHandlers{
		T:              svc.Templates,
		Sessions:       svc.Sessions,
		Dashboards:     svc.Dashboards,
		LandingContent: svc.Landing,
		CookieDomain:   appCfg.HTTP.CookieDomain,
		InitWait:       sess.GuardInitWait,
		IsDev:          appCfg.IsDev,
		Logger:         logger,
	}

	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
	}

	return httpx.NewRouter(httpx.RouterServices{
		UI: ui,
		Auth: &httpx.AuthHandlers{
			Sessions:     svc.Sessions,
			CookieDomain: appCfg.HTTP.CookieDomain,
			InitWait:     sess.GuardInitWait,
			Heartbeat:    sess.Heartbeat,
			Logger:       logger,
		},
		Guard: &httpx.RouteGuard{
			Sessions: svc.Sessions,
			InitWait: sess.GuardInitWait,
			Pages:    ui,
			Logger:   logger,
		},
		Health:             &httpx.HealthHandlers{Checks: svc.HealthChecks, Logger: logger},
		CookieDomain:       appCfg.HTTP.CookieDomain,
		CompressionEnabled: appCfg.HTTP.CompressionEnabled,
		Compression:        httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel},
		IsDev:              appCfg.IsDev,
		Logger:             logger,
	})
}

// NewHTTPServer creates the server without starting it. WriteTimeout is left
// unset: /auth/events responses stay open for the life of the page.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ServeHTTP listens on the server's address and serves until ctx is
// cancelled, then shuts down gracefully within shutdownWaitTimeout.
// ready, when non-nil, receives the bound address once listening.
func ServeHTTP(ctx context.Context, server *http.Server, logger *slog.Logger, ready chan<- net.Addr) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", server.Addr, err)
	}
	if ready != nil {
		ready <- ln.Addr()
	}

	// Request contexts derive from ctx so open event streams end on shutdown.
	server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting HTTP server", "addr", ln.Addr().String())
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownWaitTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}

package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	eduevents "github.com/eduevents/eduevents-hub"
	"github.com/eduevents/eduevents-hub/config"
	"github.com/eduevents/eduevents-hub/internal/adapters/apiclient"
	"github.com/eduevents/eduevents-hub/internal/adapters/memstore"
	redisstore "github.com/eduevents/eduevents-hub/internal/adapters/redis"
	"github.com/eduevents/eduevents-hub/internal/adapters/tokencodec"
	"github.com/eduevents/eduevents-hub/internal/content"
	httpx "github.com/eduevents/eduevents-hub/internal/http"
	"github.com/eduevents/eduevents-hub/internal/observability/statsd"
	"github.com/eduevents/eduevents-hub/internal/ports"
	"github.com/eduevents/eduevents-hub/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Storage       ports.Storage
	API           *apiclient.Client
	Sessions      *service.SessionRegistry
	Dashboards    *service.DashboardService
	Sweeper       *service.SweeperService
	Templates     *httpx.TemplateRenderer
	Landing       content.Landing
	HealthChecks  map[string]httpx.HealthChecker
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   statsd.Sink // nil when metrics are disabled
	MetricsClient *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// Close releases the metrics connection.
func (o ObservabilityContainer) Close() error {
	if o.MetricsClient == nil {
		return nil
	}
	return o.MetricsClient.Close()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient // Required when the redis storage backend is selected
	HTTPClient  *http.Client          // Optional: overrides the API transport
	Logger      *slog.Logger
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	out := ObservabilityContainer{MetricsConfig: cfg.Metrics}
	if !cfg.Metrics.IsEnabled() {
		return out
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return out
	}
	out.MetricsClient = client
	out.MetricsSink = client
	return out
}

// storageBundle is the per-browser storage plus anything that must be swept.
type storageBundle struct {
	storage ports.Storage
	sweep   map[string]service.Sweepable
	checks  map[string]httpx.HealthChecker
}

func buildStorage(cfg *config.AppConfig, client redis.UniversalClient) (storageBundle, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		if client == nil {
			return storageBundle{}, errors.New("redis storage backend selected but no redis client provided")
		}
		return storageBundle{
			storage: redisstore.NewStorage(client, redisstore.StorageOptions{
				Prefix: cfg.Storage.KeyPrefix,
				TTL:    cfg.Storage.TTL,
			}),
			sweep:  map[string]service.Sweepable{},
			checks: map[string]httpx.HealthChecker{"redis": redisPinger{client: client}},
		}, nil
	default:
		mem := memstore.New(memstore.Options{
			Capacity: cfg.Storage.MemoryCapacity,
			TTL:      cfg.Storage.TTL,
		})
		return storageBundle{
			storage: mem,
			sweep:   map[string]service.Sweepable{"browser_storage": mem},
			checks:  map[string]httpx.HealthChecker{},
		}, nil
	}
}

// loadLanding reads the landing page copy: an explicit file, the working
// copy in dev mode, or the embedded file.
func loadLanding(cfg *config.AppConfig) (content.Landing, error) {
	switch {
	case cfg.LandingContentPath != "":
		return content.LoadLandingFile(cfg.LandingContentPath)
	case cfg.IsDev:
		return content.LoadLandingFile(filepath.Join(httpx.ContentPathFromRoot, content.LandingFile))
	}
	sub, err := fs.Sub(eduevents.ContentFS, httpx.ContentPathFromRoot)
	if err != nil {
		return content.Landing{}, fmt.Errorf("embedded content: %w", err)
	}
	return content.LoadLanding(sub)
}

// NewServices wires the API client, storage, session registry and page
// services. The API client and the registry reference each other: the client
// asks the registry for the bearer token and reports 401s back to it.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	obs := buildObservability(logger, cfg.Observability)

	store, err := buildStorage(cfg, deps.RedisClient)
	if err != nil {
		return ServiceContainer{}, err
	}

	api, err := apiclient.New(apiclient.Options{
		BaseURL:     cfg.API.BaseURL,
		HTTPClient:  deps.HTTPClient,
		Timeout:     cfg.API.Timeout,
		MessagePath: cfg.API.ErrorMessagePath,
		Metrics:     obs.MetricsSink,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create api client: %w", err)
	}

	effects := service.AuthEffects{
		Navigator: httpx.RequestNavigator{Logger: logger},
		Notifier:  httpx.RequestNotifier{Logger: logger},
	}

	sessions, err := service.NewSessionRegistry(service.SessionRegistryOptions{
		Deps: service.SessionRegistryDeps{
			Storage: store.storage,
			API:     api,
			Decoder: tokencodec.New(),
			Effects: effects,
		},
		Config: service.RegistryConfig{
			Capacity:    cfg.Sessions.ManagerCapacity,
			IdleTTL:     cfg.Sessions.IdleTTL,
			InitTimeout: cfg.Sessions.InitTimeout,
		},
		Logger:  logger,
		Metrics: obs.MetricsSink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create session registry: %w", err)
	}
	api.SetAuthenticator(sessions)

	dashboards, err := service.NewDashboardService(service.DashboardServiceOptions{
		API:      api,
		Notifier: effects.Notifier,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create dashboard service: %w", err)
	}

	store.sweep["session_managers"] = sessions
	sweeper, err := service.NewSweeperService(service.SweeperServiceOptions{
		Targets:  store.sweep,
		Interval: cfg.Sessions.SweepInterval,
		Logger:   logger,
		Metrics:  obs.MetricsSink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create sweeper: %w", err)
	}

	templates, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{
		TemplateFS: httpx.TemplateFS(cfg.IsDev, logger),
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("load templates: %w", err)
	}

	landing, err := loadLanding(cfg)
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Storage:       store.storage,
		API:           api,
		Sessions:      sessions,
		Dashboards:    dashboards,
		Sweeper:       sweeper,
		Templates:     templates,
		Landing:       landing,
		HealthChecks:  store.checks,
		Observability: obs,
	}, nil
}

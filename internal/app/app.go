package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/vonida-storefront/internal/http"
	"github.com/yungbote/vonida-storefront/internal/observability"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      *Config
	Metrics  *observability.Metrics
	Services Services

	server       *http.Server
	ready        atomic.Bool
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.Session.GeneratedSecret {
		log.Warn("no session secret configured; generated one for this process (sessions reset on restart)")
	}

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.OtelConfig())

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	serviceset, err := wireServices(log, cfg, metrics)
	if err != nil {
		log.Sync()
		return nil, err
	}

	a := &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}
	handlerset := wireHandlers(log, serviceset, a.ready.Load)
	middleware := wireMiddleware(cfg, serviceset)
	a.server = wireServer(log, cfg, metrics, handlerset, middleware)
	return a, nil
}

// Run serves HTTP and sweeps idle sessions until ctx is cancelled or either
// fails.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run(gctx)
	})
	g.Go(func() error {
		return a.Services.Sessions.Run(gctx)
	})

	a.ready.Store(true)
	a.Log.Info("storefront listening", "addr", a.Cfg.HTTP.Addr, "env", a.Cfg.Env)

	err := g.Wait()
	a.ready.Store(false)
	return err
}

func (a *App) close() {
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Log.Info("storefront stopped")
	a.Log.Sync()
}

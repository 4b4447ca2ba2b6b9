package app

import (
	"github.com/yungbote/vonida-storefront/internal/http"
	httpH "github.com/yungbote/vonida-storefront/internal/http/handlers"
	httpMW "github.com/yungbote/vonida-storefront/internal/http/middleware"
	"github.com/yungbote/vonida-storefront/internal/observability"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

type Middleware struct {
	Session *httpMW.SessionMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Store    *httpH.StoreHandler
	Catalog  *httpH.CatalogHandler
	Cart     *httpH.CartHandler
	Checkout *httpH.CheckoutHandler
}

func wireHandlers(log *logger.Logger, services Services, ready func() bool) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(ready),
		Store:    httpH.NewStoreHandler(services.Storefront, services.Artwork),
		Catalog:  httpH.NewCatalogHandler(services.Storefront, services.Artwork),
		Cart:     httpH.NewCartHandler(services.Storefront),
		Checkout: httpH.NewCheckoutHandler(services.Storefront),
	}
}

func wireMiddleware(cfg *Config, services Services) Middleware {
	return Middleware{
		Session: httpMW.NewSessionMiddleware(services.Sessions, httpMW.SessionCookieConfig{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.MaxAge.Duration,
			Secure: cfg.Session.CookieSecure,
			Domain: cfg.Session.CookieDomain,
		}),
	}
}

func wireServer(log *logger.Logger, cfg *Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.ServerConfig{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout.Duration,
	}, http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		TracingEnabled:    cfg.Observability.Tracing.Enabled,
		ServiceName:       cfg.Observability.ServiceName,
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
		MaxRequestBytes:   cfg.HTTP.MaxRequestBytes,
		SessionMiddleware: middleware.Session,
		StoreHandler:      handlers.Store,
		CatalogHandler:    handlers.Catalog,
		CartHandler:       handlers.Cart,
		CheckoutHandler:   handlers.Checkout,
		HealthHandler:     handlers.Health,
	})
}

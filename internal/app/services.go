package app

import (
	"fmt"

	"github.com/yungbote/vonida-storefront/internal/catalog"
	"github.com/yungbote/vonida-storefront/internal/checkout"
	"github.com/yungbote/vonida-storefront/internal/observability"
	"github.com/yungbote/vonida-storefront/internal/order"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
	"github.com/yungbote/vonida-storefront/internal/services"
)

type Services struct {
	Catalog    *catalog.Index
	Sessions   services.SessionService
	Storefront services.StorefrontService
	Artwork    services.ArtworkService
}

func wireServices(log *logger.Logger, cfg *Config, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	idx, err := catalog.Default()
	if err != nil {
		return Services{}, fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded", "products", idx.Len())

	dispatcher, err := checkout.New(checkout.Config(cfg.Checkout))
	if err != nil {
		return Services{}, fmt.Errorf("init checkout dispatcher: %w", err)
	}

	sessions, err := services.NewSessionService(log, idx, metrics, services.SessionConfig{
		Secret:      []byte(cfg.Session.Secret),
		IdleTTL:     cfg.Session.IdleTTL.Duration,
		MaxAge:      cfg.Session.MaxAge.Duration,
		MaxSessions: cfg.Session.MaxSessions,
		SweepEvery:  cfg.Session.SweepEvery.Duration,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init session service: %w", err)
	}

	artwork, err := services.NewArtworkService(log, idx, services.ArtworkConfig{
		Palette:      cfg.Artwork.Palette,
		LogoInitials: cfg.Artwork.LogoInitials,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init artwork service: %w", err)
	}

	storefront := services.NewStorefrontService(log, idx, order.DefaultFormatter(), dispatcher, metrics, services.StoreProfile{
		Name:         cfg.Store.Name,
		Tagline:      cfg.Store.Tagline,
		PhoneDisplay: cfg.Store.PhoneDisplay,
		City:         cfg.Store.City,
		Instagram:    cfg.Store.Instagram,
	})

	return Services{
		Catalog:    idx,
		Sessions:   sessions,
		Storefront: storefront,
		Artwork:    artwork,
	}, nil
}

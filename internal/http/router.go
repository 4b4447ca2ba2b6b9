package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/vonida-storefront/internal/http/handlers"
	httpMW "github.com/yungbote/vonida-storefront/internal/http/middleware"
	"github.com/yungbote/vonida-storefront/internal/observability"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

type RouterConfig struct {
	Log               *logger.Logger
	Metrics           *observability.Metrics
	TracingEnabled    bool
	ServiceName       string
	AllowedOrigins    []string
	MaxRequestBytes   int64
	SessionMiddleware *httpMW.SessionMiddleware

	StoreHandler    *httpH.StoreHandler
	CatalogHandler  *httpH.CatalogHandler
	CartHandler     *httpH.CartHandler
	CheckoutHandler *httpH.CheckoutHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.BodyLimit(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Store + catalog (no session needed)
		if cfg.StoreHandler != nil {
			api.GET("/store", cfg.StoreHandler.GetProfile)
			api.GET("/store/logo.png", cfg.StoreHandler.GetLogo)
		}
		if cfg.CatalogHandler != nil {
			api.GET("/products", cfg.CatalogHandler.ListProducts)
			api.GET("/products/*id", cfg.CatalogHandler.ProductRoute)
		}
	}

	// Reads and shrinking mutations resolve an existing session but never
	// create one; only adding to the cart does.
	var optional, require []gin.HandlerFunc
	if cfg.SessionMiddleware != nil {
		optional = append(optional, cfg.SessionMiddleware.OptionalSession())
		require = append(require, cfg.SessionMiddleware.RequireSession())
	}
	readers := api.Group("/", optional...)
	writers := api.Group("/", require...)
	{
		// Cart
		if cfg.CartHandler != nil {
			readers.GET("/cart", cfg.CartHandler.GetCart)
			readers.DELETE("/cart", cfg.CartHandler.ClearCart)
			writers.POST("/cart/items", cfg.CartHandler.AddItem)
			readers.POST("/cart/items/decrement", cfg.CartHandler.DecrementItem)
			readers.DELETE("/cart/items", cfg.CartHandler.DeleteItem)
		}

		// Checkout
		if cfg.CheckoutHandler != nil {
			readers.POST("/checkout", cfg.CheckoutHandler.Checkout)
			readers.GET("/checkout/open", cfg.CheckoutHandler.Open)
		}
	}

	return r
}

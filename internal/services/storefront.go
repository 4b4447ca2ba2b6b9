package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/vonida-storefront/internal/cart"
	"github.com/yungbote/vonida-storefront/internal/catalog"
	"github.com/yungbote/vonida-storefront/internal/checkout"
	"github.com/yungbote/vonida-storefront/internal/observability"
	"github.com/yungbote/vonida-storefront/internal/order"
	"github.com/yungbote/vonida-storefront/internal/platform/apierr"
	"github.com/yungbote/vonida-storefront/internal/platform/ctxutil"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

var ErrEmptyCart = errors.New("cart is empty")

type StoreProfile struct {
	Name         string `json:"name"`
	Tagline      string `json:"tagline"`
	PhoneDisplay string `json:"phone_display"`
	City         string `json:"city"`
	Instagram    string `json:"instagram"`
}

type ProductView struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Prices   map[string]string `json:"prices"`
}

type LineView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	SizeLabel string `json:"size_label"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type CartView struct {
	Lines     []LineView `json:"lines"`
	ItemCount int        `json:"item_count"`
	Total     string     `json:"total"`
}

type CheckoutResult struct {
	URL     string `json:"url"`
	Message string `json:"message"`
	Total   string `json:"total"`
}

type StorefrontService interface {
	Profile() StoreProfile
	Catalog(query string) []ProductView
	Categories() []string
	Product(id string) (ProductView, error)

	// Cart and the methods below accept a nil session, which reads as an empty
	// cart. Only Add needs a session.
	Cart(ctx context.Context, sess *Session) (CartView, error)
	Add(ctx context.Context, sess *Session, productID, size string) (CartView, error)
	Remove(ctx context.Context, sess *Session, productID, size string) (CartView, error)
	DeleteLine(ctx context.Context, sess *Session, productID, size string) (CartView, error)
	Clear(ctx context.Context, sess *Session) (CartView, error)

	// Checkout formats the session's cart and dispatches the deep link through
	// opener. A nil opener only builds the link. The cart is left untouched.
	Checkout(ctx context.Context, sess *Session, opener checkout.Opener) (CheckoutResult, error)
}

type storefrontService struct {
	log        *logger.Logger
	catalog    *catalog.Index
	formatter  order.Formatter
	dispatcher *checkout.Dispatcher
	metrics    *observability.Metrics
	profile    StoreProfile
}

func NewStorefrontService(
	log *logger.Logger,
	idx *catalog.Index,
	formatter order.Formatter,
	dispatcher *checkout.Dispatcher,
	metrics *observability.Metrics,
	profile StoreProfile,
) StorefrontService {
	return &storefrontService{
		log:        log.With("service", "StorefrontService"),
		catalog:    idx,
		formatter:  formatter,
		dispatcher: dispatcher,
		metrics:    metrics,
		profile:    profile,
	}
}

func (s *storefrontService) Profile() StoreProfile {
	return s.profile
}

func (s *storefrontService) Catalog(query string) []ProductView {
	products := s.catalog.Search(query)
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, productView(p))
	}
	return out
}

func (s *storefrontService) Categories() []string {
	cats := s.catalog.Categories()
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	return out
}

func (s *storefrontService) Product(id string) (ProductView, error) {
	p, err := s.catalog.Lookup(id)
	if err != nil {
		return ProductView{}, apierr.New(http.StatusNotFound, "product_not_found", err)
	}
	return productView(p), nil
}

func (s *storefrontService) Cart(ctx context.Context, sess *Session) (CartView, error) {
	if sess == nil {
		return emptyCartView(), nil
	}
	var view CartView
	err := sess.Do(func(c *cart.Store) error {
		view = s.cartView(c)
		return nil
	})
	return view, err
}

func (s *storefrontService) Add(ctx context.Context, sess *Session, productID, size string) (CartView, error) {
	if sess == nil {
		return CartView{}, apierr.New(http.StatusInternalServerError, "no_session", ErrNoSession)
	}
	return s.mutate(ctx, sess, "add", productID, size, func(c *cart.Store) error {
		if err := c.Add(productID, catalog.Size(size)); err != nil {
			return apierr.New(http.StatusBadRequest, "invalid_product", err)
		}
		return nil
	})
}

func (s *storefrontService) Remove(ctx context.Context, sess *Session, productID, size string) (CartView, error) {
	return s.mutate(ctx, sess, "remove", productID, size, func(c *cart.Store) error {
		c.Remove(productID, catalog.Size(size))
		return nil
	})
}

func (s *storefrontService) DeleteLine(ctx context.Context, sess *Session, productID, size string) (CartView, error) {
	return s.mutate(ctx, sess, "delete_line", productID, size, func(c *cart.Store) error {
		c.DeleteLine(productID, catalog.Size(size))
		return nil
	})
}

func (s *storefrontService) Clear(ctx context.Context, sess *Session) (CartView, error) {
	return s.mutate(ctx, sess, "clear", "", "", func(c *cart.Store) error {
		c.Clear()
		return nil
	})
}

func (s *storefrontService) mutate(ctx context.Context, sess *Session, op, productID, size string, fn func(c *cart.Store) error) (CartView, error) {
	if sess == nil {
		return emptyCartView(), nil
	}
	var view CartView
	err := sess.Do(func(c *cart.Store) error {
		if err := fn(c); err != nil {
			return err
		}
		view = s.cartView(c)
		return nil
	})
	s.metrics.IncCartMutation(op, err)

	fields := append([]interface{}{
		"op", op,
		"session_id", sess.ID.String(),
		"product_id", productID,
		"size", size,
	}, ctxutil.TraceFields(ctx)...)
	if err != nil {
		s.log.Warn("cart mutation rejected", append(fields, "error", err)...)
		return CartView{}, err
	}
	s.log.Debug("cart mutation", append(fields, "items", view.ItemCount, "total", view.Total)...)
	return view, nil
}

func (s *storefrontService) Checkout(ctx context.Context, sess *Session, opener checkout.Opener) (CheckoutResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "storefront.checkout")
	defer span.End()

	var (
		lines  []cart.Line
		items  int
		fields []interface{}
	)
	if sess != nil {
		_ = sess.Do(func(c *cart.Store) error {
			lines = c.Snapshot()
			items = c.ItemCount()
			return nil
		})
		fields = append(fields, "session_id", sess.ID.String())
	}
	fields = append(fields, ctxutil.TraceFields(ctx)...)

	if len(lines) == 0 {
		s.metrics.ObserveCheckout("empty", decimal.Zero, 0)
		span.SetStatus(codes.Error, "empty cart")
		s.log.Warn("checkout refused: empty cart", fields...)
		return CheckoutResult{}, apierr.New(http.StatusConflict, "empty_cart", ErrEmptyCart)
	}

	msg, err := s.formatter.Format(lines)
	if err != nil {
		s.metrics.ObserveCheckout("error", msg.Total, items)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return CheckoutResult{}, apierr.New(http.StatusInternalServerError, "format_failed", err)
	}
	span.SetAttributes(
		attribute.Int("order.lines", len(lines)),
		attribute.Int("order.items", items),
		attribute.String("order.total", msg.Total.StringFixed(2)),
	)

	var link string
	if opener == nil {
		link = s.dispatcher.Link(msg.Text)
	} else {
		link, err = s.dispatcher.Dispatch(ctx, msg.Text, opener)
		if err != nil {
			s.metrics.ObserveCheckout("error", msg.Total, items)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.Error("checkout dispatch failed", append(fields, "error", err)...)
			return CheckoutResult{}, apierr.New(http.StatusBadGateway, "dispatch_failed", err)
		}
	}

	s.metrics.ObserveCheckout("ok", msg.Total, items)
	s.log.Info("checkout dispatched", append(fields, "lines", len(lines), "items", items, "total", msg.Total.StringFixed(2))...)
	return CheckoutResult{URL: link, Message: msg.Text, Total: msg.Total.StringFixed(2)}, nil
}

func (s *storefrontService) cartView(c *cart.Store) CartView {
	lines := c.Snapshot()
	view := CartView{
		Lines:     make([]LineView, 0, len(lines)),
		ItemCount: c.ItemCount(),
		Total:     c.Total().StringFixed(2),
	}
	for _, l := range lines {
		view.Lines = append(view.Lines, LineView{
			ProductID: l.ProductID,
			Name:      l.Name,
			Size:      string(l.Size),
			SizeLabel: s.formatter.SizeLabels[l.Size],
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal().StringFixed(2),
		})
	}
	return view
}

func emptyCartView() CartView {
	return CartView{Lines: []LineView{}, Total: decimal.Zero.StringFixed(2)}
}

func productView(p catalog.Product) ProductView {
	prices := make(map[string]string, len(p.Prices))
	for size, price := range p.Prices {
		prices[string(size)] = price.StringFixed(2)
	}
	return ProductView{ID: p.ID, Name: p.Name, Category: string(p.Category), Prices: prices}
}

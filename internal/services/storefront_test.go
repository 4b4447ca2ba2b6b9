package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/yungbote/vonida-storefront/internal/catalog"
	"github.com/yungbote/vonida-storefront/internal/checkout"
	"github.com/yungbote/vonida-storefront/internal/observability"
	"github.com/yungbote/vonida-storefront/internal/order"
	"github.com/yungbote/vonida-storefront/internal/platform/apierr"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

func newTestStorefront(t *testing.T) (StorefrontService, *Session) {
	t.Helper()
	idx := catalog.MustDefault()
	d, err := checkout.New(checkout.Config{})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	sf := NewStorefrontService(logger.Nop(), idx, order.DefaultFormatter(), d, observability.NewMetrics(), StoreProfile{Name: "Vó Nida"})

	ss, _ := newTestSessions(t, SessionConfig{})
	sess, _, err := ss.Acquire("")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	return sf, sess
}

func TestStorefrontCatalog(t *testing.T) {
	sf, _ := newTestStorefront(t)
	all := sf.Catalog("")
	if len(all) != 23 {
		t.Fatalf("catalog: want=23 got=%d", len(all))
	}
	got := sf.Catalog("CHOCOLATE")
	if len(got) != 1 || got[0].Prices["large"] != "48.00" {
		t.Fatalf("search: got=%+v", got)
	}
	if _, err := sf.Product("nope"); apierr.From(err).Status != http.StatusNotFound {
		t.Fatalf("missing product: got %v", err)
	}
	cats := sf.Categories()
	if len(cats) != 2 || cats[0] != "Simples" {
		t.Fatalf("categories: got=%v", cats)
	}
}

func TestStorefrontCartFlow(t *testing.T) {
	sf, sess := newTestStorefront(t)
	ctx := context.Background()

	_, _ = sf.Add(ctx, sess, "cafe", "medium")
	_, _ = sf.Add(ctx, sess, "cafe", "medium")
	view, err := sf.Add(ctx, sess, "tradicional", "large")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if view.Total != "81.00" || view.ItemCount != 3 || len(view.Lines) != 2 {
		t.Fatalf("view: %+v", view)
	}
	if view.Lines[0].SizeLabel != "Médio" || view.Lines[0].Subtotal != "44.00" {
		t.Fatalf("first line: %+v", view.Lines[0])
	}

	view, _ = sf.Remove(ctx, sess, "cafe", "medium")
	if view.Lines[0].Quantity != 1 {
		t.Fatalf("after remove: %+v", view.Lines[0])
	}
	view, _ = sf.DeleteLine(ctx, sess, "cafe", "medium")
	if len(view.Lines) != 1 || view.Total != "37.00" {
		t.Fatalf("after delete: %+v", view)
	}
	view, _ = sf.Clear(ctx, sess)
	if len(view.Lines) != 0 || view.Total != "0.00" {
		t.Fatalf("after clear: %+v", view)
	}
}

func TestStorefrontAddInvalid(t *testing.T) {
	sf, sess := newTestStorefront(t)
	_, err := sf.Add(context.Background(), sess, "cafe", "small")
	ae := apierr.From(err)
	if ae.Status != http.StatusBadRequest || ae.Code != "invalid_product" {
		t.Fatalf("want 400 invalid_product, got status=%d code=%q", ae.Status, ae.Code)
	}
}

func TestStorefrontCheckout(t *testing.T) {
	sf, sess := newTestStorefront(t)
	ctx := context.Background()

	_, err := sf.Checkout(ctx, sess, nil)
	if !errors.Is(err, ErrEmptyCart) || apierr.From(err).Status != http.StatusConflict {
		t.Fatalf("empty cart: got %v", err)
	}

	_, _ = sf.Add(ctx, sess, "cafe", "medium")
	_, _ = sf.Add(ctx, sess, "cafe", "medium")
	_, _ = sf.Add(ctx, sess, "tradicional", "large")

	var opened string
	res, err := sf.Checkout(ctx, sess, checkout.OpenerFunc(func(_ context.Context, uri string) error {
		opened = uri
		return nil
	}))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if res.Total != "81.00" || opened != res.URL {
		t.Fatalf("result: %+v opened=%q", res, opened)
	}
	u, err := url.Parse(res.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if u.Query().Get("text") != res.Message {
		t.Fatalf("link text does not decode to the message")
	}

	view, _ := sf.Cart(ctx, sess)
	if view.ItemCount != 3 {
		t.Fatalf("checkout must not clear the cart: items=%d", view.ItemCount)
	}

	_, err = sf.Checkout(ctx, sess, checkout.OpenerFunc(func(context.Context, string) error {
		return errors.New("blocked")
	}))
	if ae := apierr.From(err); ae.Status != http.StatusBadGateway {
		t.Fatalf("dispatch failure: want 502, got status=%d", ae.Status)
	}
}

func TestStorefrontWithoutSession(t *testing.T) {
	sf, _ := newTestStorefront(t)
	ctx := context.Background()

	view, err := sf.Cart(ctx, nil)
	if err != nil || view.ItemCount != 0 || view.Total != "0.00" || view.Lines == nil {
		t.Fatalf("nil session cart: view=%+v err=%v", view, err)
	}
	if _, err := sf.Remove(ctx, nil, "cafe", "medium"); err != nil {
		t.Fatalf("nil session remove: %v", err)
	}
	if _, err := sf.Clear(ctx, nil); err != nil {
		t.Fatalf("nil session clear: %v", err)
	}
	if _, err := sf.Add(ctx, nil, "cafe", "medium"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("nil session add: want ErrNoSession, got %v", err)
	}
	_, err = sf.Checkout(ctx, nil, nil)
	if ae := apierr.From(err); ae.Status != http.StatusConflict || !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("nil session checkout: got %v", err)
	}
}

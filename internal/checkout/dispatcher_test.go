package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
)

const sampleOrder = "Olá, gostaria de realizar um pedido:\n\n" +
	"- Bolo de Café (Médio) x2 - R$ 44.00\n" +
	"- Bolo de Cenoura c/ brigadeiro (Grande) x1 - R$ 48.00\n" +
	"\n*Total: R$ 92.00* & 100% #1 ?=+"

func TestEncodeRoundTrip(t *testing.T) {
	enc := Encode(sampleOrder)
	for _, bad := range []string{" ", "+", "\n", "&", "#", "?", "=", "/", "é"} {
		if strings.Contains(enc, bad) {
			t.Fatalf("encoded text contains %q: %s", bad, enc)
		}
	}
	dec, err := url.QueryUnescape(enc)
	if err != nil {
		t.Fatalf("unescape: %v", err)
	}
	if dec != sampleOrder {
		t.Fatalf("round trip:\nwant=%q\ngot =%q", sampleOrder, dec)
	}
}

func TestEncodeSpacesAndAccents(t *testing.T) {
	if got, want := Encode("Olá mundo"), "Ol%C3%A1%20mundo"; got != want {
		t.Fatalf("encode: want=%q got=%q", want, got)
	}
}

func TestLinkDefaults(t *testing.T) {
	d, err := New(Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	link := d.Link("oi tudo bem")
	if want := "https://wa.me/5514996746904?text=oi%20tudo%20bem"; link != want {
		t.Fatalf("link: want=%q got=%q", want, link)
	}

	u, err := url.Parse(d.Link(sampleOrder))
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if u.Host != "wa.me" || u.Path != "/5514996746904" {
		t.Fatalf("link target: host=%q path=%q", u.Host, u.Path)
	}
	if got := u.Query().Get("text"); got != sampleOrder {
		t.Fatalf("query text:\nwant=%q\ngot =%q", sampleOrder, got)
	}
}

func TestNewRejectsBadTarget(t *testing.T) {
	for _, cfg := range []Config{
		{Destination: "+55 14 9967"},
		{Domain: "wa.me/evil"},
		{Scheme: "ht tp"},
	} {
		if _, err := New(cfg); !errors.Is(err, ErrInvalidTarget) {
			t.Fatalf("%+v: want ErrInvalidTarget, got %v", cfg, err)
		}
	}
}

func TestDispatch(t *testing.T) {
	d, _ := New(Config{Destination: "5511999999999"})

	var opened string
	link, err := d.Dispatch(context.Background(), "pedido", OpenerFunc(func(_ context.Context, uri string) error {
		opened = uri
		return nil
	}))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if opened != link || link != "https://wa.me/5511999999999?text=pedido" {
		t.Fatalf("opened=%q link=%q", opened, link)
	}

	boom := errors.New("popup blocked")
	link, err = d.Dispatch(context.Background(), "pedido", OpenerFunc(func(context.Context, string) error { return boom }))
	if !errors.Is(err, boom) || link == "" {
		t.Fatalf("want wrapped opener error and link, got link=%q err=%v", link, err)
	}

	if _, err := d.Dispatch(context.Background(), "pedido", nil); !errors.Is(err, ErrNoOpener) {
		t.Fatalf("want ErrNoOpener, got %v", err)
	}
}

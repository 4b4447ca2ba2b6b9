package services

import (
	"bytes"
	"image/png"
	"net/http"
	"testing"

	"github.com/yungbote/vonida-storefront/internal/catalog"
	"github.com/yungbote/vonida-storefront/internal/platform/apierr"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

func newTestArtwork(t *testing.T) ArtworkService {
	t.Helper()
	svc, err := NewArtworkService(logger.Nop(), catalog.MustDefault(), ArtworkConfig{})
	if err != nil {
		t.Fatalf("NewArtworkService: %v", err)
	}
	return svc
}

func TestProductTile(t *testing.T) {
	svc := newTestArtwork(t)
	raw, err := svc.ProductTile("cafe", 128)
	if err != nil {
		t.Fatalf("tile: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Fatalf("bounds: want=128x128 got=%dx%d", b.Dx(), b.Dy())
	}

	fresh := newTestArtwork(t)
	again, _ := fresh.ProductTile("cafe", 128)
	if !bytes.Equal(raw, again) {
		t.Fatalf("tile rendering is not deterministic")
	}
	other, _ := svc.ProductTile("coco", 128)
	if bytes.Equal(raw, other) {
		t.Fatalf("different products rendered identical tiles")
	}
}

func TestProductTileErrors(t *testing.T) {
	svc := newTestArtwork(t)
	if _, err := svc.ProductTile("bolo-de-pedra", 0); apierr.From(err).Status != http.StatusNotFound {
		t.Fatalf("unknown product: got %v", err)
	}
	for _, size := range []int{4096, 100, 63, -64} {
		if _, err := svc.ProductTile("cafe", size); apierr.From(err).Code != "invalid_image_size" {
			t.Fatalf("size %d: got %v", size, err)
		}
	}
}

func TestArtworkCacheIsBounded(t *testing.T) {
	svc := newTestArtwork(t)
	as := svc.(*artworkService)
	for size := 1; size <= 1024; size++ {
		_, _ = svc.ProductTile("cafe", size)
	}
	n := 0
	as.cache.Range(func(_, _ any) bool { n++; return true })
	if n != len(ArtworkSizes) {
		t.Fatalf("cached tiles: want=%d got=%d", len(ArtworkSizes), n)
	}
}

func TestLogo(t *testing.T) {
	svc := newTestArtwork(t)
	raw, err := svc.Logo(0)
	if err != nil {
		t.Fatalf("logo: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != artworkDefault {
		t.Fatalf("width: want=%d got=%d", artworkDefault, b.Dx())
	}
}

func TestProductInitials(t *testing.T) {
	cases := map[string]string{
		"Banana com canela":     "BC",
		"Café":                  "C",
		"Cenoura c/ brigadeiro": "CB",
		"Pé de Moleque":         "PM",
	}
	for in, want := range cases {
		if got := productInitials(in); got != want {
			t.Fatalf("productInitials(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestBadPalette(t *testing.T) {
	if _, err := NewArtworkService(logger.Nop(), catalog.MustDefault(), ArtworkConfig{Palette: []string{"#12345"}}); err == nil {
		t.Fatalf("expected palette error")
	}
}

package services

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/yungbote/vonida-storefront/internal/catalog"
	"github.com/yungbote/vonida-storefront/internal/platform/apierr"
	"github.com/yungbote/vonida-storefront/internal/platform/logger"
)

const (
	artworkMasterSize = 512
	artworkDefault    = 256
)

// ArtworkSizes are the only rendered edge lengths; the cache holds at most one
// PNG per (image, size).
var ArtworkSizes = []int{64, 128, 256, 512}

var (
	ErrInvalidImageSize = errors.New("invalid image size")

	defaultPalette = []string{"#F9A8D4", "#F472B6", "#FBCFE8", "#FDE68A", "#FCA5A5", "#D6B38C", "#A7F3D0", "#C4B5FD"}
)

type ArtworkConfig struct {
	Palette      []string
	LogoInitials string
}

// ArtworkService renders deterministic PNG artwork: one tile per product and
// the store logo. Output depends only on the input id and size.
type ArtworkService interface {
	ProductTile(productID string, size int) ([]byte, error)
	Logo(size int) ([]byte, error)
}

type artworkService struct {
	log      *logger.Logger
	catalog  catalog.Lookuper
	font     *truetype.Font
	palette  []color.NRGBA
	initials string

	cache sync.Map // "<kind>:<id>@<size>" -> []byte
}

func NewArtworkService(log *logger.Logger, c catalog.Lookuper, cfg ArtworkConfig) (ArtworkService, error) {
	serviceLog := log.With("service", "ArtworkService")

	parsed, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse artwork font: %w", err)
	}

	hexes := cfg.Palette
	if len(hexes) == 0 {
		hexes = defaultPalette
	}
	palette := make([]color.NRGBA, 0, len(hexes))
	for _, h := range hexes {
		r, g, b, err := parseHexRGB(h)
		if err != nil {
			return nil, fmt.Errorf("artwork palette color %q: %w", h, err)
		}
		palette = append(palette, color.NRGBA{R: r, G: g, B: b, A: 255})
	}

	initials := strings.TrimSpace(cfg.LogoInitials)
	if initials == "" {
		initials = "VN"
	}
	serviceLog.Info("artwork renderer ready", "palette", len(palette))

	return &artworkService{
		log:      serviceLog,
		catalog:  c,
		font:     parsed,
		palette:  palette,
		initials: initials,
	}, nil
}

func (as *artworkService) ProductTile(productID string, size int) ([]byte, error) {
	size, err := normalizeArtworkSize(size)
	if err != nil {
		return nil, err
	}
	p, err := as.catalog.Lookup(productID)
	if err != nil {
		return nil, apierr.New(http.StatusNotFound, "product_not_found", err)
	}
	key := fmt.Sprintf("tile:%s@%d", p.ID, size)
	return as.cached(key, func() ([]byte, error) {
		return as.render(p.ID, productInitials(p.Name), size, false)
	})
}

func (as *artworkService) Logo(size int) ([]byte, error) {
	size, err := normalizeArtworkSize(size)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("logo:%s@%d", as.initials, size)
	return as.cached(key, func() ([]byte, error) {
		return as.render("logo:"+as.initials, as.initials, size, true)
	})
}

func (as *artworkService) cached(key string, build func() ([]byte, error)) ([]byte, error) {
	if v, ok := as.cache.Load(key); ok {
		return v.([]byte), nil
	}
	b, err := build()
	if err != nil {
		return nil, err
	}
	v, _ := as.cache.LoadOrStore(key, b)
	return v.([]byte), nil
}

// render draws at the master size and scales down, so every size of one
// tile shares the same composition.
func (as *artworkService) render(seed, label string, size int, round bool) ([]byte, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	sum := h.Sum64()
	rng := rand.New(rand.NewSource(int64(sum)))

	const m = float64(artworkMasterSize)
	dc := gg.NewContext(artworkMasterSize, artworkMasterSize)
	if round {
		dc.DrawCircle(m/2, m/2, m/2)
		dc.Clip()
	}

	base := as.palette[sum%uint64(len(as.palette))]
	dc.SetColor(base)
	dc.DrawRectangle(0, 0, m, m)
	dc.Fill()

	for i := 0; i < 6; i++ {
		c := as.palette[rng.Intn(len(as.palette))]
		c.A = 120
		dc.SetColor(c)
		dc.DrawCircle(rng.Float64()*m, rng.Float64()*m, m/8+rng.Float64()*m/4)
		dc.Fill()
	}

	dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 90})
	dc.DrawCircle(m/2, m/2, m*0.3)
	dc.Fill()

	face := truetype.NewFace(as.font, &truetype.Options{
		Size:    m * 0.22,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(label, m/2, m/2, 0.5, 0.35)

	var img image.Image = dc.Image()
	if size != artworkMasterSize {
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func normalizeArtworkSize(size int) (int, error) {
	if size == 0 {
		return artworkDefault, nil
	}
	for _, allowed := range ArtworkSizes {
		if size == allowed {
			return size, nil
		}
	}
	return 0, apierr.New(http.StatusBadRequest, "invalid_image_size",
		fmt.Errorf("%w: %d (want one of %v)", ErrInvalidImageSize, size, ArtworkSizes))
}

var initialsStopWords = map[string]bool{"c/": true, "com": true, "de": true, "e": true}

// productInitials takes the first letter of the first and last significant
// words: "Banana com canela" -> "BC", "Café" -> "C".
func productInitials(name string) string {
	var words []string
	for _, w := range strings.Fields(name) {
		if initialsStopWords[strings.ToLower(w)] {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return "?"
	}
	first := firstLetter(words[0])
	if len(words) == 1 {
		return first
	}
	return first + firstLetter(words[len(words)-1])
}

func firstLetter(w string) string {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return string(unicode.ToUpper(r))
		}
	}
	return ""
}

func parseHexRGB(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("expected 6 hex chars")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex: %w", err)
	}
	return raw[0], raw[1], raw[2], nil
}

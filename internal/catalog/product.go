package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Size string

const (
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sizes lists every size variant in display order.
var Sizes = []Size{SizeMedium, SizeLarge}

func ParseSize(raw string) (Size, error) {
	switch Size(strings.ToLower(strings.TrimSpace(raw))) {
	case SizeMedium:
		return SizeMedium, nil
	case SizeLarge:
		return SizeLarge, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSize, raw)
	}
}

func (s Size) Valid() bool {
	return s == SizeMedium || s == SizeLarge
}

type Category string

const (
	CategorySimples   Category = "Simples"
	CategoryEspeciais Category = "Especiais"
)

func (c Category) Valid() bool {
	return c == CategorySimples || c == CategoryEspeciais
}

// Product is a catalog entry. Values are never mutated once the Index is built.
type Product struct {
	ID       string
	Name     string
	Category Category
	Prices   map[Size]decimal.Decimal
}

// Price returns the unit price for size, or false if the product does not carry it.
func (p Product) Price(size Size) (decimal.Decimal, bool) {
	d, ok := p.Prices[size]
	return d, ok
}

func (p Product) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProduct)
	}
	if p.ID == "" {
		return fmt.Errorf("%w: %q has no id", ErrInvalidProduct, p.Name)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q has unknown category %q", ErrInvalidProduct, p.Name, p.Category)
	}
	if len(p.Prices) != len(Sizes) {
		return fmt.Errorf("%w: %q must be priced for exactly %d sizes", ErrInvalidProduct, p.Name, len(Sizes))
	}
	for _, s := range Sizes {
		price, ok := p.Prices[s]
		if !ok {
			return fmt.Errorf("%w: %q missing %s price", ErrInvalidProduct, p.Name, s)
		}
		if !price.IsPositive() {
			return fmt.Errorf("%w: %q %s price must be positive", ErrInvalidProduct, p.Name, s)
		}
		if !price.Equal(price.Round(2)) {
			return fmt.Errorf("%w: %q %s price %s has more than two decimals", ErrInvalidProduct, p.Name, s, price)
		}
	}
	return nil
}

func (p Product) clone() Product {
	prices := make(map[Size]decimal.Decimal, len(p.Prices))
	for k, v := range p.Prices {
		prices[k] = v
	}
	p.Prices = prices
	return p
}

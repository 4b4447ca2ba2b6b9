package catalog

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type catalogDoc struct {
	Groups []groupDoc `yaml:"groups"`
}

type groupDoc struct {
	Category Category          `yaml:"category"`
	Prices   map[string]string `yaml:"prices"`
	Names    []string          `yaml:"names"`
}

// Parse reads a grouped catalog document. Products keep document order and
// share their group's prices.
func Parse(raw []byte) (*Index, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	var products []Product
	for _, g := range doc.Groups {
		prices := make(map[Size]decimal.Decimal, len(g.Prices))
		for rawSize, rawPrice := range g.Prices {
			size, err := ParseSize(rawSize)
			if err != nil {
				return nil, fmt.Errorf("catalog group %q: %w", g.Category, err)
			}
			d, err := decimal.NewFromString(rawPrice)
			if err != nil {
				return nil, fmt.Errorf("catalog group %q %s price %q: %w", g.Category, size, rawPrice, err)
			}
			prices[size] = d
		}
		for _, name := range g.Names {
			products = append(products, Product{
				ID:       Slug(name),
				Name:     name,
				Category: g.Category,
				Prices:   prices,
			})
		}
	}
	return New(products)
}

// Default returns the catalog compiled into the binary.
func Default() (*Index, error) {
	return Parse(defaultCatalogYAML)
}

// MustDefault is Default for start-up paths where a broken catalog must stop the process.
func MustDefault() *Index {
	idx, err := Default()
	if err != nil {
		panic(err)
	}
	return idx
}

package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Lookuper is the read side of the catalog used by carts.
type Lookuper interface {
	Lookup(id string) (Product, error)
}

// Index is an immutable, ordered product catalog.
type Index struct {
	products []Product
	byID     map[string]int
	folded   []string
}

// New validates products and builds an Index preserving their order. Two
// products resolving to the same id is an error.
func New(products []Product) (*Index, error) {
	idx := &Index{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
		folded:   make([]string, 0, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			p.ID = Slug(p.Name)
		}
		if err := p.validate(); err != nil {
			return nil, err
		}
		if prev, ok := idx.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %q (%q and %q)", ErrDuplicateID, p.ID, idx.products[prev].Name, p.Name)
		}
		idx.byID[p.ID] = len(idx.products)
		idx.products = append(idx.products, p.clone())
		idx.folded = append(idx.folded, fold(p.Name))
	}
	return idx, nil
}

func (x *Index) Lookup(id string) (Product, error) {
	i, ok := x.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return x.products[i].clone(), nil
}

// Search returns products whose name contains query, ignoring case and
// Unicode normalization form. An empty query returns the whole catalog.
func (x *Index) Search(query string) []Product {
	q := fold(query)
	out := make([]Product, 0, len(x.products))
	for i, p := range x.products {
		if q == "" || strings.Contains(x.folded[i], q) {
			out = append(out, p.clone())
		}
	}
	return out
}

func (x *Index) All() []Product {
	return x.Search("")
}

func (x *Index) Len() int {
	return len(x.products)
}

// Categories lists categories in the order they first appear.
func (x *Index) Categories() []Category {
	seen := map[Category]bool{}
	var out []Category
	for _, p := range x.products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// fold builds a fresh Caser per call; Casers are stateful and Index is shared.
func fold(s string) string {
	return norm.NFC.String(cases.Fold().String(norm.NFC.String(s)))
}

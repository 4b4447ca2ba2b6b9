package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yungbote/vonida-storefront/internal/catalog"
)

// Store is one purchaser's in-progress order. Lines keep the order in which
// their key was first added. A Store is not safe for concurrent use.
type Store struct {
	catalog catalog.Lookuper
	lines   []Line
	index   map[LineKey]int
}

func New(c catalog.Lookuper) *Store {
	return &Store{
		catalog: c,
		index:   map[LineKey]int{},
	}
}

// Add puts one unit of (productID, size) in the cart, merging with an existing
// line for the same key.
func (s *Store) Add(productID string, size catalog.Size) error {
	key := LineKey{ProductID: productID, Size: size}
	if i, ok := s.index[key]; ok {
		s.lines[i] = s.lines[i].withQuantity(s.lines[i].Quantity + 1)
		return nil
	}

	p, err := s.catalog.Lookup(productID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	price, ok := p.Price(size)
	if !ok {
		return fmt.Errorf("%w: %q is not sold in size %q", ErrInvalidProduct, productID, size)
	}

	s.index[key] = len(s.lines)
	s.lines = append(s.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Size:      size,
		UnitPrice: price,
		Quantity:  1,
	})
	return nil
}

// Remove takes one unit off the line for (productID, size). The line is
// deleted when its last unit goes. Missing lines are ignored.
func (s *Store) Remove(productID string, size catalog.Size) {
	i, ok := s.index[LineKey{ProductID: productID, Size: size}]
	if !ok {
		return
	}
	if s.lines[i].Quantity > 1 {
		s.lines[i] = s.lines[i].withQuantity(s.lines[i].Quantity - 1)
		return
	}
	s.deleteAt(i)
}

// DeleteLine drops the line for (productID, size) regardless of quantity.
func (s *Store) DeleteLine(productID string, size catalog.Size) {
	if i, ok := s.index[LineKey{ProductID: productID, Size: size}]; ok {
		s.deleteAt(i)
	}
}

func (s *Store) Clear() {
	s.lines = nil
	s.index = map[LineKey]int{}
}

func (s *Store) QuantityOf(productID string, size catalog.Size) int {
	if i, ok := s.index[LineKey{ProductID: productID, Size: size}]; ok {
		return s.lines[i].Quantity
	}
	return 0
}

// Total is the exact sum of every line subtotal.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount is the number of units across all lines.
func (s *Store) ItemCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	return len(s.lines)
}

func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// Snapshot copies the lines in insertion order.
func (s *Store) Snapshot() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) deleteAt(i int) {
	delete(s.index, s.lines[i].Key())
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	for j := i; j < len(s.lines); j++ {
		s.index[s.lines[j].Key()] = j
	}
}

package cart

import (
	"github.com/shopspring/decimal"

	"github.com/yungbote/vonida-storefront/internal/catalog"
)

// LineKey identifies a cart line. A cart holds at most one line per key.
type LineKey struct {
	ProductID string
	Size      catalog.Size
}

// Line is an immutable cart entry. Name and UnitPrice are captured when the
// line is first added and never re-read from the catalog.
type Line struct {
	ProductID string
	Name      string
	Size      catalog.Size
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l Line) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size}
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) withQuantity(q int) Line {
	l.Quantity = q
	return l
}

package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yungbote/vonida-storefront/internal/cart"
	"github.com/yungbote/vonida-storefront/internal/catalog"
)

var ErrEmptyOrder = errors.New("order has no lines")

// Message is the rendered order text and the total it states.
type Message struct {
	Text  string
	Total decimal.Decimal
}

// Formatter renders cart lines as a human-readable order:
//
//	<Greeting>
//
//	- <ItemPrefix><name> (<size label>) x<qty> - <Currency> <subtotal>
//	...
//
//	*Total: <Currency> <total>*
type Formatter struct {
	Greeting   string
	ItemPrefix string
	Currency   string
	SizeLabels map[catalog.Size]string
}

func DefaultFormatter() Formatter {
	return Formatter{
		Greeting:   "Olá, gostaria de realizar um pedido:",
		ItemPrefix: "Bolo de ",
		Currency:   "R$",
		SizeLabels: map[catalog.Size]string{
			catalog.SizeMedium: "Médio",
			catalog.SizeLarge:  "Grande",
		},
	}
}

// Format is deterministic in the line values and their order. Amounts are
// printed with exactly two decimals and '.' as separator.
func (f Formatter) Format(lines []cart.Line) (Message, error) {
	if len(lines) == 0 {
		return Message{}, ErrEmptyOrder
	}

	var b strings.Builder
	b.WriteString(f.Greeting)
	b.WriteString("\n\n")

	total := decimal.Zero
	for _, l := range lines {
		sub := l.Subtotal()
		total = total.Add(sub)
		fmt.Fprintf(&b, "- %s%s (%s) x%d - %s %s\n", f.ItemPrefix, l.Name, f.sizeLabel(l.Size), l.Quantity, f.Currency, sub.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n*Total: %s %s*", f.Currency, total.StringFixed(2))

	return Message{Text: b.String(), Total: total}, nil
}

func (f Formatter) sizeLabel(s catalog.Size) string {
	if label, ok := f.SizeLabels[s]; ok {
		return label
	}
	return string(s)
}

package catalog

import "errors"

var (
	ErrNotFound       = errors.New("product not found")
	ErrDuplicateID    = errors.New("duplicate product id")
	ErrInvalidProduct = errors.New("invalid catalog product")
	ErrUnknownSize    = errors.New("unknown size")
)

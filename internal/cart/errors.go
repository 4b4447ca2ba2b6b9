package cart

import "errors"

// ErrInvalidProduct is returned by Add for an unknown product id or a size the
// product is not sold in.
var ErrInvalidProduct = errors.New("invalid product")

package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrInvalidProduct  = errors.New("invalid product")

	// -- Resource State --
	ErrOutOfStock = errors.New("product out of stock")
)

package product

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidProductID   = errors.New("invalid product id")
	ErrFailedGetProduct   = errors.New("failed to get product")
	ErrFailedListProducts = errors.New("failed to list products")
)

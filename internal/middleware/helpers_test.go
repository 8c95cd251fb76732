package middleware

import (
	"context"

	"snackstore-be/internal/wishlist"
)

// emptyWishlist is a remote store with no rows.
type emptyWishlist struct{}

func (emptyWishlist) ListByUser(context.Context, string) ([]wishlist.Entry, error) { return nil, nil }
func (emptyWishlist) Insert(context.Context, string, string) (*wishlist.Entry, error) {
	return nil, nil
}
func (emptyWishlist) Delete(context.Context, string, string) error { return nil }
func (emptyWishlist) DeleteAll(context.Context, string) error      { return nil }

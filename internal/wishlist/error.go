package wishlist

import "errors"

var (
	// -- Authentication --
	ErrNotAuthenticated = errors.New("please log in to use the wishlist")

	// -- Remote Store --
	// ErrDuplicateIgnored marks an insert that hit the unique constraint. The
	// store treats it as success and never returns it to callers.
	ErrDuplicateIgnored     = errors.New("wishlist entry already exists")
	ErrWishlistLoadFailed   = errors.New("failed to load wishlist")
	ErrWishlistAddFailed    = errors.New("failed to add to wishlist")
	ErrWishlistRemoveFailed = errors.New("failed to remove from wishlist")
	ErrWishlistClearFailed  = errors.New("failed to clear wishlist")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)

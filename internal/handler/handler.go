package handler

import (
	"context"
	"errors"
	"net/http"

	"snackstore-be/internal/cart"
	"snackstore-be/internal/metrics"
	"snackstore-be/internal/middleware"
	"snackstore-be/internal/product"
	"snackstore-be/internal/promo"
	"snackstore-be/internal/session"
	"snackstore-be/internal/user"
	"snackstore-be/internal/utils"
	"snackstore-be/internal/wishlist"

	"github.com/google/uuid"
)

// ProductLookup is the slice of the catalog the handlers need.
type ProductLookup interface {
	GetProductByID(ctx context.Context, opts product.GetProductOptions) (*product.Product, error)
	ListActive(ctx context.Context, limit, offset int) ([]*product.Product, error)
}

type Handler struct {
	Products   ProductLookup
	Users      user.Service
	Tokens     middleware.TokenParser
	Sessions   *session.Manager
	PromoCodes *promo.Table
	Shipping   promo.Shipping
	Metrics    *metrics.Registry
}

// parseProductID rejects ids that are not UUIDs before they reach postgres.
func parseProductID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", product.ErrInvalidProductID
	}
	return id.String(), nil
}

func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "session missing", http.StatusInternalServerError)
	}
	return s, ok
}

// writeError maps domain errors to short, user-facing responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wishlist.ErrNotAuthenticated):
		utils.WriteJSONError(w, wishlist.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
	case errors.Is(err, wishlist.ErrWishlistAddFailed):
		utils.WriteJSONError(w, "Failed to add to wishlist", http.StatusBadGateway)
	case errors.Is(err, wishlist.ErrWishlistRemoveFailed):
		utils.WriteJSONError(w, "Failed to remove from wishlist", http.StatusBadGateway)
	case errors.Is(err, wishlist.ErrWishlistClearFailed):
		utils.WriteJSONError(w, "Failed to clear wishlist", http.StatusBadGateway)
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, product.ErrInvalidProductID):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, cart.ErrOutOfStock):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, product.ErrProductNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, user.ErrInvalidCredentials):
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
	default:
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "OK"}
	if h.Metrics != nil {
		body["counters"] = h.Metrics.Snapshot()
	}
	if h.Sessions != nil {
		body["sessions"] = h.Sessions.Len()
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

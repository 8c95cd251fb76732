package handler

import (
	"net/http"

	"snackstore-be/internal/session"
	"snackstore-be/internal/utils"
	"snackstore-be/internal/wishlist"

	"github.com/go-chi/chi/v5"
)

type wishlistResponse struct {
	Items []wishlist.Entry `json:"items"`
	Count int              `json:"count"`
}

func wishlistView(s *session.Session) wishlistResponse {
	items := s.Wishlist.Items()
	return wishlistResponse{Items: items, Count: len(items)}
}

// requireUser answers 401 for anonymous sessions.
func requireUser(w http.ResponseWriter, s *session.Session) bool {
	if id, _ := s.Identity(); !id.Authenticated() {
		writeError(w, wishlist.ErrNotAuthenticated)
		return false
	}
	return true
}

// wishlistTarget resolves the session and the product id in the path.
func (h *Handler) wishlistTarget(w http.ResponseWriter, r *http.Request) (*session.Session, string, bool) {
	s, ok := currentSession(w, r)
	if !ok {
		return nil, "", false
	}
	productID, err := parseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return nil, "", false
	}
	return s, productID, true
}

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok || !requireUser(w, s) {
		return
	}
	utils.WriteJSON(w, http.StatusOK, wishlistView(s))
}

func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	s, productID, ok := h.wishlistTarget(w, r)
	if !ok {
		return
	}
	if err := s.Wishlist.Add(r.Context(), productID); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, wishlistView(s))
}

func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	s, productID, ok := h.wishlistTarget(w, r)
	if !ok {
		return
	}
	if err := s.Wishlist.Remove(r.Context(), productID); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, wishlistView(s))
}

func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	s, productID, ok := h.wishlistTarget(w, r)
	if !ok {
		return
	}
	if err := s.Wishlist.Toggle(r.Context(), productID); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, struct {
		InWishlist bool `json:"in_wishlist"`
		wishlistResponse
	}{s.Wishlist.Contains(productID), wishlistView(s)})
}

func (h *Handler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := s.Wishlist.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, wishlistView(s))
}

package handler

import (
	"net/http"
	"strings"

	"snackstore-be/internal/auth"
	"snackstore-be/internal/logger"
	"snackstore-be/internal/utils"

	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	Authenticated bool      `json:"authenticated"`
	UserID        string    `json:"user_id,omitempty"`
	Email         string    `json:"email,omitempty"`
	Role          auth.Role `json:"role"`
	CartCount     int       `json:"cart_count"`
	WishlistCount int       `json:"wishlist_count"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.WriteJSONError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	token, u, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Bind now so the wishlist is loaded before the client asks for it.
	if err := h.Sessions.Bind(r.Context(), s, auth.Identity{UserID: u.ID, Email: u.Email}); err != nil {
		logger.FromCtx(r.Context()).Warn("login completed with stale wishlist", zap.Error(err))
	}

	_, role := s.Identity()
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"user_id": u.ID,
		"role":    role,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.Sessions.Logout(r.Context(), s)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	id, role := s.Identity()
	utils.WriteJSON(w, http.StatusOK, meResponse{
		Authenticated: id.Authenticated(),
		UserID:        id.UserID,
		Email:         id.Email,
		Role:          role,
		CartCount:     s.Cart.Count(),
		WishlistCount: s.Wishlist.Count(),
	})
}

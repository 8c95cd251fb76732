package handler

import (
	"net/http"

	"snackstore-be/internal/cart"
	"snackstore-be/internal/logger"
	"snackstore-be/internal/product"
	"snackstore-be/internal/promo"
	"snackstore-be/internal/session"
	"snackstore-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartResponse struct {
	Items []cart.LineItem `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type summaryResponse struct {
	cartResponse
	PromoCode            string          `json:"promo_code,omitempty"`
	Totals               promo.Totals    `json:"totals"`
	AmountToFreeShipping decimal.Decimal `json:"amount_to_free_shipping"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

type promoRequest struct {
	Code string `json:"code"`
}

func cartView(s *session.Session) cartResponse {
	items, count, total := s.Cart.Snapshot()
	return cartResponse{Items: items, Count: count, Total: total.Round(2)}
}

func (h *Handler) summary(s *session.Session) summaryResponse {
	code, fraction := s.Promo.Applied()
	items, count, subtotal := s.Cart.Snapshot()
	return summaryResponse{
		cartResponse:         cartResponse{Items: items, Count: count, Total: subtotal.Round(2)},
		PromoCode:            code,
		Totals:               promo.ComputeTotals(subtotal, fraction, h.Shipping).Rounded(),
		AmountToFreeShipping: h.Shipping.AmountToFreeShipping(subtotal).Round(2),
	}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, cartView(s))
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	productID, err := parseProductID(req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	log := logger.FromCtx(r.Context()).With(
		zap.String("product_id", productID),
		zap.Int("quantity", req.Quantity),
	)

	p, err := h.Products.GetProductByID(r.Context(), product.GetProductOptions{
		ProductID:  productID,
		OnlyActive: true,
	})
	if err != nil {
		log.Warn("product lookup failed", zap.Error(err))
		writeError(w, err)
		return
	}

	if err := s.Cart.AddToCart(*p, req.Quantity); err != nil {
		log.Warn("add to cart rejected", zap.Error(err))
		writeError(w, err)
		return
	}

	log.Info("cart item added", zap.Int("cart_count", s.Cart.Count()))
	utils.WriteJSON(w, http.StatusOK, cartView(s))
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity == nil {
		utils.WriteJSONError(w, "quantity is required", http.StatusBadRequest)
		return
	}

	s.Cart.UpdateQuantity(chi.URLParam(r, "id"), *req.Quantity)
	utils.WriteJSON(w, http.StatusOK, cartView(s))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	s.Cart.RemoveFromCart(chi.URLParam(r, "id"))
	utils.WriteJSON(w, http.StatusOK, cartView(s))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	s.Cart.ClearCart()
	utils.WriteJSON(w, http.StatusOK, cartView(s))
}

// ApplyPromo always answers 200 with the recomputed summary; "applied" tells
// the client whether the code was recognised.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req promoRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	applied := s.Promo.Apply(req.Code)
	logger.FromCtx(r.Context()).Info("promo code submitted",
		zap.String("code", req.Code),
		zap.Bool("applied", applied),
	)

	utils.WriteJSON(w, http.StatusOK, struct {
		Applied bool `json:"applied"`
		summaryResponse
	}{applied, h.summary(s)})
}

func (h *Handler) CartSummary(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.summary(s))
}

func (h *Handler) ListPromoCodes(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{"codes": h.PromoCodes.Codes()})
}

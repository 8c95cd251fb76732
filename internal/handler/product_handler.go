package handler

import (
	"net/http"
	"strconv"

	"snackstore-be/internal/product"
	"snackstore-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

const defaultPageSize = 20

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		utils.WriteJSONError(w, "limit must be a number", http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		utils.WriteJSONError(w, "offset must be a number", http.StatusBadRequest)
		return
	}

	products, err := h.Products.ListActive(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.Products.GetProductByID(r.Context(), product.GetProductOptions{
		ProductID:  id,
		OnlyActive: true,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

package handler

import (
	"net/http"

	"snackstore-be/internal/auth"
	"snackstore-be/internal/logger"
	"snackstore-be/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter assembles the middleware chain and routes. Order matters: the
// rate limiter keys on the identity set by auth, and the session binds to it.
func NewRouter(h *Handler, limiter *middleware.RateLimiter, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Device-ID", "X-Client-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.AuthMiddleware(h.Tokens))
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Get("/health", h.Health)
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.Middleware)

		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)
		r.Get("/me", h.Me)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Patch("/items/{id}", h.UpdateCartItem)
			r.Delete("/items/{id}", h.RemoveCartItem)
			r.Post("/promo", h.ApplyPromo)
			r.Get("/summary", h.CartSummary)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.GetWishlist)
			r.Delete("/", h.ClearWishlist)
			r.Post("/{productID}", h.AddToWishlist)
			r.Delete("/{productID}", h.RemoveFromWishlist)
			r.Post("/{productID}/toggle", h.ToggleWishlist)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Get("/promo-codes", h.ListPromoCodes)
		})
	})

	return r
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snackstore-be/internal/auth"
	"snackstore-be/internal/config"
	"snackstore-be/internal/db"
	"snackstore-be/internal/handler"
	"snackstore-be/internal/logger"
	"snackstore-be/internal/metrics"
	"snackstore-be/internal/middleware"
	"snackstore-be/internal/product"
	"snackstore-be/internal/promo"
	"snackstore-be/internal/realtime"
	"snackstore-be/internal/session"
	"snackstore-be/internal/user"
	"snackstore-be/internal/wishlist"

	"go.uber.org/zap"
)

var (
	initDBFunc      = db.NewDatabase
	startRelayFunc  = startRelay
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changes := realtime.NewHub[realtime.Change]()
	if err := startRelayFunc(ctx, cfg, changes); err != nil {
		// Wishlists still work without the listener; other tabs just won't
		// see changes until their next load.
		logger.L().Warn("realtime relay not started", zap.Error(err))
	}

	router, err := newServer(ctx, cfg, database, changes)
	if err != nil {
		return err
	}

	addr := ":" + cfg.AppPort
	logger.L().Info("server starting", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
	return startServerFunc(ctx, addr, router)
}

// newServer wires repositories, sessions and the router. Background work is
// bound to ctx.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB, changes *realtime.Hub[realtime.Change]) (http.Handler, error) {
	reg := metrics.NewRegistry()

	tokens, err := user.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	productRepo := product.NewRepository(database)
	userSvc := user.NewService(user.NewRepository(database), tokens)
	wishlistRepo := wishlist.NewRepository(database)

	roles, err := auth.NewRoleResolver(userSvc, cfg.RoleCacheSize)
	if err != nil {
		return nil, err
	}

	codes := promo.NewTable(promo.DefaultCodes)
	sessions := session.NewManager(session.Options{
		Wishlists:   wishlistRepo,
		Roles:       roles,
		PromoCodes:  codes,
		Changes:     changes,
		Metrics:     reg,
		MaxSessions: cfg.MaxSessions,
		TTL:         cfg.SessionTTL,
	})

	limiter := middleware.NewRateLimiter()
	go limiter.Cleanup(ctx)

	h := &handler.Handler{
		Products:   productRepo,
		Users:      userSvc,
		Tokens:     tokens,
		Sessions:   sessions,
		PromoCodes: codes,
		Shipping: promo.Shipping{
			FreeThreshold: cfg.FreeShippingThreshold,
			Fee:           cfg.ShippingFee,
		},
		Metrics: reg,
	}
	return handler.NewRouter(h, limiter, cfg.AllowedOrigins), nil
}

func startRelay(ctx context.Context, cfg *config.Config, changes *realtime.Hub[realtime.Change]) error {
	relay, err := realtime.NewPGRelay(db.ListenerDSN(cfg), realtime.WishlistChannel, changes)
	if err != nil {
		return err
	}
	go func() {
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.L().Error("realtime relay stopped", zap.Error(err))
		}
	}()
	return nil
}

func startServer(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"snackstore-be/internal/logger"
	"snackstore-be/internal/metrics"

	"go.uber.org/zap"
)

type Repository interface {
	GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error)
	ListActive(ctx context.Context, limit, offset int) ([]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, slug, COALESCE(image_url, ''), price, stock_quantity, status`

func scanProduct(s interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	if err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.ImageURL,
		&p.Price,
		&p.StockQuantity,
		&p.Status,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProductByID"),
		zap.String("product_id", opts.ProductID),
	)

	if opts.ProductID == "" {
		return nil, ErrInvalidProductID
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	args := []any{opts.ProductID}
	if opts.OnlyActive {
		query += ` AND status = $2`
		args = append(args, StatusActive)
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("product not found")
		return nil, ErrProductNotFound
	}
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedGetProduct, err)
	}

	return p, nil
}

func (r *repository) ListActive(ctx context.Context, limit, offset int) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListActive"),
	)
	timer := metrics.StartTimer()

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT `+productColumns+`
	FROM products
	WHERE status = $1
	ORDER BY name ASC
	LIMIT $2 OFFSET $3`, StatusActive, limit, offset)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedListProducts, err)
	}
	defer rows.Close()

	result := make([]*Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrFailedListProducts, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedListProducts, err)
	}

	log.Info("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", timer.Duration()),
	)
	return result, nil
}

package wishlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"snackstore-be/internal/logger"
	"snackstore-be/internal/metrics"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Repository is the remote side of the wishlist: one row per
// (user_id, product_id), joined to products on read.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	Insert(ctx context.Context, userID, productID string) (*Entry, error)
	Delete(ctx context.Context, userID, productID string) error
	DeleteAll(ctx context.Context, userID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const entryColumns = `
		w.user_id,
		w.product_id,
		w.created_at,
		p.id,
		p.name,
		p.slug,
		COALESCE(p.image_url, ''),
		p.price,
		p.stock_quantity,
		p.status`

func scanEntry(s interface{ Scan(...any) error }) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.UserID,
		&e.ProductID,
		&e.CreatedAt,
		&e.Product.ID,
		&e.Product.Name,
		&e.Product.Slug,
		&e.Product.ImageURL,
		&e.Product.Price,
		&e.Product.StockQuantity,
		&e.Product.Status,
	)
	return e, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByUser"),
		zap.String("user_id", userID),
	)
	timer := metrics.StartTimer()

	rows, err := r.db.QueryContext(ctx, `
	SELECT`+entryColumns+`
	FROM wishlists w
	JOIN products p ON p.id = w.product_id
	WHERE w.user_id = $1
	ORDER BY w.created_at DESC`, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", timer.Duration()),
	)
	return result, nil
}

// Insert adds the row and returns it joined to its product. A unique
// violation is reported as ErrDuplicateIgnored.
func (r *repository) Insert(ctx context.Context, userID, productID string) (*Entry, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Insert"),
		zap.String("user_id", userID),
		zap.String("product_id", productID),
	)

	row := r.db.QueryRowContext(ctx, `
	WITH w AS (
		INSERT INTO wishlists (user_id, product_id)
		VALUES ($1, $2)
		RETURNING user_id, product_id, created_at
	)
	SELECT`+entryColumns+`
	FROM w
	JOIN products p ON p.id = w.product_id`, userID, productID)

	e, err := scanEntry(row)
	if isUniqueViolation(err) {
		log.Debug("duplicate wishlist insert ignored")
		return nil, fmt.Errorf("%w: %v", ErrDuplicateIgnored, err)
	}
	if err != nil {
		log.Error("insert failed", zap.Error(err))
		return nil, err
	}

	log.Info("wishlist entry created")
	return &e, nil
}

func (r *repository) Delete(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx, `
	DELETE FROM wishlists
	WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		logger.FromCtx(ctx).Error("delete wishlist entry failed",
			zap.String("user_id", userID),
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) DeleteAll(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wishlists WHERE user_id = $1`, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("clear wishlist failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	n, _ := res.RowsAffected()
	logger.FromCtx(ctx).Info("wishlist cleared",
		zap.String("user_id", userID),
		zap.Int64("rows", n),
	)
	return nil
}

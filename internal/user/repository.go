package user

import (
	"context"
	"database/sql"
	"errors"

	"snackstore-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, password FROM users WHERE email = $1",
		email,
	).Scan(&u.ID, &u.Email, &u.Password)

	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to find user",
			zap.String("email", email),
			zap.Error(err),
		)
	}
	return u, err
}

// GetProfile fetches a user's profile by user ID.
func (r *repository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProfile"),
		zap.String("user_id", userID),
	)

	var p Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, role, created_at
		FROM profiles
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.FullName, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("profile not found")
			return nil, ErrProfileNotFound
		}
		log.Error("failed to scan profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

package repository

import (
	"context"
	"time"

	"weshare/internal/model"
)

// UserRepository persists accounts.
type UserRepository interface {
	// Create inserts a user and returns the stored row. A taken email or name yields a *DuplicateError
	// carrying FieldEmail or FieldName.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	UpdateProfileImage(ctx context.Context, id int64, url string) error
}

// RefreshTokenRepository keeps at most one refresh token per user.
type RefreshTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	// Save inserts the token or replaces the user's existing one.
	Save(ctx context.Context, t *model.RefreshToken) error
	DeleteByUserID(ctx context.Context, userID int64) error
	// DeleteOlderThan purges tokens not rotated since cutoff and reports how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

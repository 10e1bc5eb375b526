package service

import (
	"context"
	"fmt"

	"realestate3d/internal/core/auth"
	"realestate3d/internal/domain"
	"realestate3d/internal/repo"
)

type UserStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateWithProfile(ctx context.Context, u *domain.User, p *domain.UserProfile) error
	EnsureProfile(ctx context.Context, userID uint) (*domain.UserProfile, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error)
}

type PropertyStore interface {
	List(ctx context.Context, q string) ([]domain.Property, error)
	FindByID(ctx context.Context, id uint) (*domain.Property, error)
	Create(ctx context.Context, p *domain.Property) error
	Delete(ctx context.Context, id uint) (bool, error)
}

type LikeStore interface {
	ListByUser(ctx context.Context, userID uint) ([]domain.UserLike, error)
	GetOrCreate(ctx context.Context, userID uint, itemID string) (*domain.UserLike, bool, error)
}

type BookingStore interface {
	ListByUser(ctx context.Context, userID uint) ([]domain.Booking, error)
	Create(ctx context.Context, b *domain.Booking) error
	FindOwned(ctx context.Context, id, userID uint) (*domain.Booking, error)
	Reschedule(ctx context.Context, b *domain.Booking, date, at string) error
	List(ctx context.Context, f repo.BookingFilter) ([]domain.Booking, error)
	SetStatus(ctx context.Context, id uint, status domain.BookingStatus) (*domain.Booking, error)
}

// TokenIssuer 签发/轮换令牌，格式由实现决定
type TokenIssuer interface {
	IssuePair(ctx context.Context, uid uint, email, role string) (auth.Pair, error)
	Rotate(ctx context.Context, refresh string) (auth.Pair, error)
}

func lookupUser(ctx context.Context, users UserStore, email string) (*domain.User, error) {
	u, err := users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, errUserNotFound
	}
	return u, nil
}

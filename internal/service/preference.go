package service

import (
	"context"
	"fmt"

	"realestate3d/internal/domain"
)

type Preference struct {
	users UserStore
	likes LikeStore
}

func NewPreference(users UserStore, likes LikeStore) *Preference {
	return &Preference{users: users, likes: likes}
}

func (s *Preference) ListLikes(ctx context.Context, email string) ([]domain.UserLike, error) {
	u, err := lookupUser(ctx, s.users, email)
	if err != nil {
		return nil, err
	}
	likes, err := s.likes.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return likes, nil
}

// AddLike 同一 (user, item) 重复调用返回已有记录，created=false
func (s *Preference) AddLike(ctx context.Context, email, itemID string) (*domain.UserLike, bool, error) {
	u, err := lookupUser(ctx, s.users, email)
	if err != nil {
		return nil, false, err
	}
	like, created, err := s.likes.GetOrCreate(ctx, u.ID, itemID)
	if err != nil {
		return nil, false, fmt.Errorf("add like: %w", err)
	}
	return like, created, nil
}

package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realestate3d/internal/domain"
)

type LikeRepo struct{ db *gorm.DB }

func NewLikeRepo(db *gorm.DB) *LikeRepo { return &LikeRepo{db: db} }

func (r *LikeRepo) ListByUser(ctx context.Context, userID uint) ([]domain.UserLike, error) {
	likes := []domain.UserLike{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// GetOrCreate 依赖 (user_id, liked_item_id) 唯一索引：并发插入只有一个成功，其余读回已有记录
func (r *LikeRepo) GetOrCreate(ctx context.Context, userID uint, itemID string) (*domain.UserLike, bool, error) {
	like := domain.UserLike{UserID: userID, LikedItemID: itemID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return &like, true, nil
	}

	var existing domain.UserLike
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND liked_item_id = ?", userID, itemID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

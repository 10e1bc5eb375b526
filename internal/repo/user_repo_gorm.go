package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"realestate3d/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindByEmail 找不到返回 (nil, nil)；重复 email 取 id 最小的一条
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Order("id").First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateWithProfile 在同一事务里写 users + user_profiles
func (r *UserRepo) CreateWithProfile(ctx context.Context, u *domain.User, p *domain.UserProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(u).Error; err != nil {
			return err
		}
		p.UserID = u.ID
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		u.Profile = p
		return nil
	})
}

// EnsureProfile 不存在时创建空资料
func (r *UserRepo) EnsureProfile(ctx context.Context, userID uint) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := r.db.WithContext(ctx).
		Where(domain.UserProfile{UserID: userID}).
		FirstOrCreate(&p).Error
	if IsDupKey(err) {
		// 并发登录：另一个请求先建好了
		err = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Omit("Profile").Save(u).Error
}

func (r *UserRepo) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("email LIKE ? OR username LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"realestate3d/internal/domain"
)

type PropertyRepo struct{ db *gorm.DB }

func NewPropertyRepo(db *gorm.DB) *PropertyRepo { return &PropertyRepo{db: db} }

// List 按 id 升序；q 非空时按名称/地点模糊匹配
func (r *PropertyRepo) List(ctx context.Context, q string) ([]domain.Property, error) {
	tx := r.db.WithContext(ctx).Order("id")
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("name LIKE ? OR location LIKE ?", like, like)
	}
	var ps []domain.Property
	if err := tx.Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *PropertyRepo) FindByID(ctx context.Context, id uint) (*domain.Property, error) {
	var p domain.Property
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Delete 连同预约一起删除；返回是否删到了记录
func (r *PropertyRepo) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&domain.Booking{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Property{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

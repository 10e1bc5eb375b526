package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"realestate3d/internal/domain"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo { return &BookingRepo{db: db} }

// ListByUser 最新的在前，房源一起带出
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Booking, error) {
	bs := []domain.Booking{}
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&bs).Error
	if err != nil {
		return nil, err
	}
	return bs, nil
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Omit("User", "Property").Create(b).Error
}

// FindOwned 归属作为查询条件：别人的预约和不存在的预约一样返回 nil
func (r *BookingRepo) FindOwned(ctx context.Context, id, userID uint) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("id = ? AND user_id = ?", id, userID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Reschedule 只改 date/time
func (r *BookingRepo) Reschedule(ctx context.Context, b *domain.Booking, date, at string) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{"date": date, "time": at}).Error
	if err != nil {
		return err
	}
	b.Date, b.Time = date, at
	return nil
}

type BookingFilter struct {
	Status string
	Date   string
	Q      string // 用户名或房源名
}

func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("Property").
		Model(&domain.Booking{})
	if f.Status != "" {
		tx = tx.Where("bookings.status = ?", f.Status)
	}
	if f.Date != "" {
		tx = tx.Where("bookings.date = ?", f.Date)
	}
	if f.Q != "" {
		like := "%" + f.Q + "%"
		tx = tx.
			Joins("JOIN users ON users.id = bookings.user_id").
			Joins("JOIN properties ON properties.id = bookings.property_id").
			Where("users.username LIKE ? OR properties.name LIKE ?", like, like)
	}
	bs := []domain.Booking{}
	if err := tx.Order("bookings.created_at DESC, bookings.id DESC").Find(&bs).Error; err != nil {
		return nil, err
	}
	return bs, nil
}

// SetStatus 不存在时返回 (nil, nil)
func (r *BookingRepo) SetStatus(ctx context.Context, id uint, status domain.BookingStatus) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Preload("User").Preload("Property").First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, err
	}
	b.Status = status
	return &b, nil
}

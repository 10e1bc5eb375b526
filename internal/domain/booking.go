package domain

import "time"

type BookingStatus string

const (
	BookingUpcoming  BookingStatus = "upcoming"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingUpcoming, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking 看房预约；date/time 是前端展示用字符串，不做日历校验
type Booking struct {
	ID         uint          `gorm:"primaryKey"`
	UserID     uint          `gorm:"not null;index"`
	PropertyID uint          `gorm:"not null;index"`
	Date       string        `gorm:"size:50;not null"`
	Time       string        `gorm:"size:50;not null"`
	Status     BookingStatus `gorm:"size:20;not null;default:upcoming"`
	CreatedAt  time.Time     `gorm:"index"`

	User     *User     `gorm:"constraint:OnDelete:CASCADE"`
	Property *Property `gorm:"constraint:OnDelete:CASCADE"`
}

func (Booking) TableName() string { return "bookings" }

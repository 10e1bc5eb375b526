package domain

import "time"

// User 账号；username 与 email 相同
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:191;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`

	Profile *UserProfile `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

// Role 用于 JWT claims
func (u User) Role() string {
	if u.IsStaff {
		return "admin"
	}
	return "user"
}

// UserProfile 与 User 一对一
type UserProfile struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        uint    `gorm:"uniqueIndex;not null"`
	ContactNumber *string `gorm:"size:15"`
	ProfilePic    *string `gorm:"size:255"` // 资源 key，读取时再拼绝对 URL
}

func (UserProfile) TableName() string { return "user_profiles" }

// UserLike 点赞记录；liked_item_id 是外部定义的不透明 id
type UserLike struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_liked_item" json:"user"`
	LikedItemID string    `gorm:"size:255;not null;uniqueIndex:idx_user_liked_item" json:"liked_item_id"`
	CreatedAt   time.Time `json:"created_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (UserLike) TableName() string { return "user_likes" }

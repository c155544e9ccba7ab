package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff account for the admin panel. Donors never log in here;
// they are reached over SMS and Telegram.
type User struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`

	UserName  string `gorm:"column:user_name;type:varchar(100);not null" json:"user_name"`
	UserPhone string `gorm:"column:user_phone;type:varchar(30);not null;uniqueIndex" json:"user_phone"`

	UserPasswordHash string `gorm:"column:user_password_hash;type:varchar(100);not null" json:"-"`

	UserRole     string `gorm:"column:user_role;type:varchar(20);default:'agent'" json:"user_role"`
	UserIsActive bool   `gorm:"column:user_is_active;default:true" json:"user_is_active"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

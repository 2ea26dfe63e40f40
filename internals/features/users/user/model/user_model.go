package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserName      string    `gorm:"column:user_name;type:varchar(50);not null" json:"user_name"`
	UserEmail     string    `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex:uq_users_email" json:"user_email"`
	UserPassword  string    `gorm:"column:user_password;type:text;not null" json:"-"`
	UserRole      string    `gorm:"column:user_role;type:varchar(10);not null;default:user" json:"user_role"`
	UserGoogleSub *string   `gorm:"column:user_google_sub;type:varchar(64)" json:"-"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}

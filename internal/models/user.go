package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email          string    `gorm:"unique;not null" json:"email"`
	Username       string    `gorm:"unique;not null" json:"username"`
	HashedPassword string    `gorm:"not null" json:"-"`
	FullName       string    `json:"full_name"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	IsVerified     bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

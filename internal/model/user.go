package model

import "time"

// User — учётная запись пользователя. Пароль хранится только как bcrypt-хеш.
type User struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Name     string `gorm:"not null" json:"name"`
	Image    string `json:"image,omitempty"`
	Password string `gorm:"not null" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

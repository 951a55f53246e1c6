package model

import "time"

// Роли пользователя в приложении.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Permission — права и квота пользователя, по одной строке на пару (пользователь, приложение).
// Создаётся лениво при первом обращении с безопасными значениями по умолчанию.
type Permission struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	UserID int64 `gorm:"not null;uniqueIndex:idx_permissions_user_app" json:"user_id"`

	// Связи
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	App           string `gorm:"not null;default:arcive;uniqueIndex:idx_permissions_user_app" json:"app"`
	Role          string `gorm:"not null;default:user" json:"role"` // user | admin
	UploadEnabled bool   `gorm:"not null;default:false" json:"upload_enabled"`
	StorageLimit  int64  `gorm:"not null" json:"storage_limit"` // байты
	StorageUsed   int64  `gorm:"not null;default:0" json:"storage_used"`
	MaxFileSize   int64  `gorm:"not null" json:"max_file_size"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

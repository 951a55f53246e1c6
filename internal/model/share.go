package model

import "time"

// Тип объекта шаринга: файл или папка. Один generic-компонент
// обслуживает оба вместо двух параллельных таблиц.
const (
	TargetFile   = "file"
	TargetFolder = "folder"
)

// Уровни внутреннего доступа.
const (
	AccessView = "view"
	AccessEdit = "edit"
)

// ShareLink — публичная ссылка. Любой владелец токена (и пароля, если он
// задан) может просматривать объект до истечения ExpiresAt.
// Пароль хранится как bcrypt-хеш, никогда в открытом виде.
type ShareLink struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	Token        string     `gorm:"uniqueIndex;not null" json:"token"`
	TargetType   string     `gorm:"not null" json:"target_type"` // file | folder
	TargetID     int64      `gorm:"not null;index" json:"target_id"`
	PasswordHash *string    `json:"-"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`

	AllowDownload bool  `gorm:"not null;default:true" json:"allow_download"`
	CreatedBy     int64 `gorm:"not null;index" json:"created_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AccessGrant — внутренний долговременный доступ к файлу или папке.
type AccessGrant struct {
	ID               int64  `gorm:"primaryKey" json:"id"`
	TargetType       string `gorm:"not null;uniqueIndex:idx_grants_target_user" json:"target_type"`
	TargetID         int64  `gorm:"not null;uniqueIndex:idx_grants_target_user" json:"target_id"`
	SharedWithUserID int64  `gorm:"not null;uniqueIndex:idx_grants_target_user;index" json:"shared_with_user_id"`
	Permission       string `gorm:"not null" json:"permission"` // view | edit
	SharedBy         int64  `gorm:"not null" json:"shared_by"`

	SharedAt time.Time `gorm:"autoCreateTime" json:"shared_at"`
}

package model

import "time"

// File — метаданные файла. Содержимое лежит во внешнем объектном
// хранилище под ключом StorageKey. Жизненный цикл: Active → Trashed
// (IsDeleted=true, обратимо) → Purged (строка и блоб удалены).
type File struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	MimeType   string `json:"mime_type"`
	Size       int64  `gorm:"not null" json:"size"`
	StorageKey string `gorm:"not null;uniqueIndex" json:"-"`

	FolderID *int64 `gorm:"index" json:"folder_id,omitempty"` // nil — корень
	OwnerID  int64  `gorm:"not null;index" json:"owner_id"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	IsStarred bool       `gorm:"not null;default:false" json:"is_starred"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

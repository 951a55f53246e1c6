package model

import "time"

// Folder — папка пользователя. ParentID == nil означает корень;
// цепочка родителей образует лес (ацикличность проверяется при перемещении).
type Folder struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	ParentID *int64 `gorm:"index" json:"parent_id,omitempty"`
	OwnerID  int64  `gorm:"not null;index" json:"owner_id"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	IsStarred bool `gorm:"not null;default:false" json:"is_starred"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

package model

import "time"

// Notification — уведомление пользователя (создаётся как побочный
// эффект шаринга). Получатель может отметить прочитанным или удалить.
type Notification struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	UserID  int64  `gorm:"not null;index" json:"user_id"`
	Type    string `gorm:"not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
	IsRead  bool   `gorm:"not null;default:false" json:"is_read"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

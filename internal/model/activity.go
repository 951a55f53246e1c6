package model

import "time"

// ActivityLog — append-only журнал действий. Строки никогда не
// изменяются и не удаляются обычными потоками.
type ActivityLog struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	UserID     int64  `gorm:"not null;index" json:"user_id"`
	Action     string `gorm:"not null" json:"action"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	TargetName string `json:"target_name"`
	Metadata   string `json:"metadata,omitempty"` // JSON-объект, сериализованный сервисом

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

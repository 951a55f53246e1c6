package repo

import (
	"context"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	"gorm.io/gorm"
)

// NotificationRepository — контракт доступа к уведомлениям.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID int64) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)

	// MarkRead / Delete возвращают число затронутых строк: 0 — чужое
	// либо несуществующее уведомление.
	MarkRead(ctx context.Context, id, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id, userID int64) (int64, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepository создаёт реализацию репозитория уведомлений.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	var items []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return tx.RowsAffected, tx.Error
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *notificationRepo) Delete(ctx context.Context, id, userID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{})
	return tx.RowsAffected, tx.Error
}

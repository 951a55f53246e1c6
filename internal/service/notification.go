package service

import (
	"context"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"
)

// NotificationService — уведомления получателя.
type NotificationService struct {
	repo repo.NotificationRepository
}

func NewNotificationService(r repo.NotificationRepository) *NotificationService {
	return &NotificationService{repo: r}
}

func (s *NotificationService) List(ctx context.Context, userID int64) ([]model.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead отмечает уведомление прочитанным; чужое — not found.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	rows, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID int64) error {
	rows, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

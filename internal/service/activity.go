package service

import (
	"context"
	"encoding/json"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"

	"go.uber.org/zap"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityService — append-only журнал действий. Запись не фатальна:
// ошибка логируется, основная операция продолжается.
type ActivityService struct {
	repo   repo.ActivityRepository
	logger *zap.SugaredLogger
}

func NewActivityService(r repo.ActivityRepository, logger *zap.SugaredLogger) *ActivityService {
	return &ActivityService{repo: r, logger: logger}
}

// Log добавляет запись в журнал. Ошибки глотаются.
func (s *ActivityService) Log(ctx context.Context, userID int64, action, targetType string, targetID int64, targetName string, metadata map[string]any) {
	entry := &model.ActivityLog{
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		TargetName: targetName,
	}
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			entry.Metadata = string(b)
		}
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warnw("activity log write failed",
			"user_id", userID, "action", action, "error", err)
	}
}

// List возвращает последние действия пользователя.
func (s *ActivityService) List(ctx context.Context, userID int64, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

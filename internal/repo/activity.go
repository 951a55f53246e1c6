package repo

import (
	"context"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	"gorm.io/gorm"
)

// ActivityRepository — append-only журнал действий.
type ActivityRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.ActivityLog, error)
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepository создаёт реализацию репозитория журнала.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

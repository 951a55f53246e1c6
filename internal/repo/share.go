package repo

import (
	"context"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShareRepository — контракт доступа к публичным ссылкам и внутренним
// правам. Один репозиторий обслуживает оба типа целей (file|folder).
type ShareRepository interface {
	CreateLink(ctx context.Context, l *model.ShareLink) error
	GetLinkByToken(ctx context.Context, token string) (*model.ShareLink, error)
	ListLinksByCreator(ctx context.Context, userID int64) ([]model.ShareLink, error)

	// DeleteLink удаляет ссылку создателя; возвращает число удалённых строк.
	DeleteLink(ctx context.Context, token string, createdBy int64) (int64, error)
	CountLinksByCreator(ctx context.Context, userID int64) (int64, error)

	// UpsertGrant вставляет право или обновляет уровень уже выданного.
	UpsertGrant(ctx context.Context, g *model.AccessGrant) error
	GetGrant(ctx context.Context, targetType string, targetID, userID int64) (*model.AccessGrant, error)
	DeleteGrant(ctx context.Context, targetType string, targetID, userID int64) (int64, error)
	ListGrantsForTarget(ctx context.Context, targetType string, targetID int64) ([]model.AccessGrant, error)
	ListGrantsForUser(ctx context.Context, userID int64) ([]model.AccessGrant, error)
}

type shareRepo struct {
	db *gorm.DB
}

// NewShareRepository создаёт реализацию репозитория шаринга.
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepo{db: db}
}

func (r *shareRepo) CreateLink(ctx context.Context, l *model.ShareLink) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *shareRepo) GetLinkByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	var l model.ShareLink
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *shareRepo) ListLinksByCreator(ctx context.Context, userID int64) ([]model.ShareLink, error) {
	var links []model.ShareLink
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *shareRepo) DeleteLink(ctx context.Context, token string, createdBy int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("token = ? AND created_by = ?", token, createdBy).
		Delete(&model.ShareLink{})
	return tx.RowsAffected, tx.Error
}

func (r *shareRepo) CountLinksByCreator(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ShareLink{}).
		Where("created_by = ?", userID).
		Count(&n).Error
	return n, err
}

func (r *shareRepo) UpsertGrant(ctx context.Context, g *model.AccessGrant) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "target_type"}, {Name: "target_id"}, {Name: "shared_with_user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"permission", "shared_by"}),
	}).Create(g).Error
}

func (r *shareRepo) GetGrant(ctx context.Context, targetType string, targetID, userID int64) (*model.AccessGrant, error) {
	var g model.AccessGrant
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ? AND shared_with_user_id = ?", targetType, targetID, userID).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *shareRepo) DeleteGrant(ctx context.Context, targetType string, targetID, userID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ? AND shared_with_user_id = ?", targetType, targetID, userID).
		Delete(&model.AccessGrant{})
	return tx.RowsAffected, tx.Error
}

func (r *shareRepo) ListGrantsForTarget(ctx context.Context, targetType string, targetID int64) ([]model.AccessGrant, error) {
	var grants []model.AccessGrant
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("shared_at").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *shareRepo) ListGrantsForUser(ctx context.Context, userID int64) ([]model.AccessGrant, error) {
	var grants []model.AccessGrant
	err := r.db.WithContext(ctx).
		Where("shared_with_user_id = ?", userID).
		Order("shared_at DESC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

package repo

import (
	"context"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	"gorm.io/gorm"
)

// FolderRepository — контракт доступа к папкам.
type FolderRepository interface {
	Create(ctx context.Context, f *model.Folder) error

	// GetOwned возвращает папку только если она принадлежит ownerID.
	// Чужая и несуществующая папка неразличимы (gorm.ErrRecordNotFound).
	GetOwned(ctx context.Context, id, ownerID int64) (*model.Folder, error)
	GetByID(ctx context.Context, id int64) (*model.Folder, error)

	// ListByParent: parentID == nil — папки в корне владельца.
	ListByParent(ctx context.Context, ownerID int64, parentID *int64) ([]model.Folder, error)

	// ListChildren — подпапки без фильтра владельца (публичные ссылки).
	ListChildren(ctx context.Context, parentID int64) ([]model.Folder, error)

	Update(ctx context.Context, id int64, updates map[string]any) error
	SetParent(ctx context.Context, id int64, parentID *int64) error
	Delete(ctx context.Context, id int64) error

	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type folderRepo struct {
	db *gorm.DB
}

// NewFolderRepository создаёт реализацию репозитория для Folder.
func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &folderRepo{db: db}
}

func (r *folderRepo) Create(ctx context.Context, f *model.Folder) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *folderRepo) GetOwned(ctx context.Context, id, ownerID int64) (*model.Folder, error) {
	var f model.Folder
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *folderRepo) GetByID(ctx context.Context, id int64) (*model.Folder, error) {
	var f model.Folder
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *folderRepo) ListByParent(ctx context.Context, ownerID int64, parentID *int64) ([]model.Folder, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var folders []model.Folder
	if err := q.Order("name").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *folderRepo) ListChildren(ctx context.Context, parentID int64) ([]model.Folder, error) {
	var folders []model.Folder
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *folderRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Folder{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *folderRepo) SetParent(ctx context.Context, id int64, parentID *int64) error {
	return r.db.WithContext(ctx).Model(&model.Folder{}).
		Where("id = ?", id).
		Update("parent_id", parentID).Error
}

func (r *folderRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Folder{}, id).Error
}

func (r *folderRepo) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Folder{}).
		Where("owner_id = ?", ownerID).
		Count(&n).Error
	return n, err
}

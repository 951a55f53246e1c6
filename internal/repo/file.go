package repo

import (
	"context"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	"gorm.io/gorm"
)

// FileCounts — агрегаты по файлам владельца для статистики.
type FileCounts struct {
	Active  int64
	Trashed int64
	Starred int64
}

// FileRepository — контракт доступа к метаданным файлов.
type FileRepository interface {
	Create(ctx context.Context, f *model.File) error

	// GetOwned возвращает файл (в любом состоянии) только владельцу.
	GetOwned(ctx context.Context, id, ownerID int64) (*model.File, error)
	GetByID(ctx context.Context, id int64) (*model.File, error)

	// List — не удалённые файлы владельца. starredOnly игнорирует папку,
	// иначе folderID == nil означает корень.
	List(ctx context.Context, ownerID int64, folderID *int64, starredOnly bool) ([]model.File, error)

	// ListByFolder — не удалённые файлы папки без фильтра владельца
	// (публичные ссылки, выдача прав на содержимое).
	ListByFolder(ctx context.Context, folderID int64) ([]model.File, error)

	ListTrashed(ctx context.Context, ownerID int64) ([]model.File, error)

	Update(ctx context.Context, id int64, updates map[string]any) error
	SetFolder(ctx context.Context, id int64, folderID *int64) error
	Delete(ctx context.Context, id int64) error

	// DetachFolder обнуляет ссылку на папку у её файлов (удаление папки
	// не каскадирует на файлы).
	DetachFolder(ctx context.Context, folderID int64) error

	CountByOwner(ctx context.Context, ownerID int64) (FileCounts, error)
}

type fileRepo struct {
	db *gorm.DB
}

// NewFileRepository создаёт реализацию репозитория для File.
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, f *model.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fileRepo) GetOwned(ctx context.Context, id, ownerID int64) (*model.File, error) {
	var f model.File
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fileRepo) GetByID(ctx context.Context, id int64) (*model.File, error) {
	var f model.File
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fileRepo) List(ctx context.Context, ownerID int64, folderID *int64, starredOnly bool) ([]model.File, error) {
	q := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false)
	switch {
	case starredOnly:
		q = q.Where("is_starred = ?", true)
	case folderID == nil:
		q = q.Where("folder_id IS NULL")
	default:
		q = q.Where("folder_id = ?", *folderID)
	}
	var files []model.File
	if err := q.Order("name").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepo) ListByFolder(ctx context.Context, folderID int64) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).
		Where("folder_id = ? AND is_deleted = ?", folderID, false).
		Order("name").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepo) ListTrashed(ctx context.Context, ownerID int64) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, true).
		Order("deleted_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.File{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *fileRepo) SetFolder(ctx context.Context, id int64, folderID *int64) error {
	return r.db.WithContext(ctx).Model(&model.File{}).
		Where("id = ?", id).
		Update("folder_id", folderID).Error
}

func (r *fileRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.File{}, id).Error
}

func (r *fileRepo) DetachFolder(ctx context.Context, folderID int64) error {
	return r.db.WithContext(ctx).Model(&model.File{}).
		Where("folder_id = ?", folderID).
		Update("folder_id", nil).Error
}

func (r *fileRepo) CountByOwner(ctx context.Context, ownerID int64) (FileCounts, error) {
	var c FileCounts
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.File{}).Where("owner_id = ?", ownerID)
	}
	if err := base().Where("is_deleted = ?", false).Count(&c.Active).Error; err != nil {
		return c, err
	}
	if err := base().Where("is_deleted = ?", true).Count(&c.Trashed).Error; err != nil {
		return c, err
	}
	if err := base().Where("is_deleted = ? AND is_starred = ?", false, true).Count(&c.Starred).Error; err != nil {
		return c, err
	}
	return c, nil
}

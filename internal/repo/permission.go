package repo

import (
	"context"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppArcive — приложение файлового хранилища; квоты и роли скопированы
// на пару (пользователь, приложение).
const AppArcive = "arcive"

// PermissionRepository — контракт доступа к правам/квотам.
type PermissionRepository interface {
	GetByUser(ctx context.Context, userID int64) (*model.Permission, error)

	// CreateIfAbsent создаёт строку прав, если её ещё нет.
	// Повторная вставка для той же пары (user, app) — no-op.
	CreateIfAbsent(ctx context.Context, p *model.Permission) error

	// AddStorageUsed атомарно прибавляет delta к storage_used на стороне
	// БД, не опускаясь ниже нуля. Никогда не читает-потом-пишет: два
	// конкурентных аплоада не могут потерять друг друга.
	AddStorageUsed(ctx context.Context, userID int64, delta int64) error

	Update(ctx context.Context, userID int64, updates map[string]any) error
	ListWithUsers(ctx context.Context) ([]model.Permission, error)
}

type permissionRepo struct {
	db  *gorm.DB
	app string
}

// NewPermissionRepository создаёт реализацию репозитория прав для приложения Arcive.
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db: db, app: AppArcive}
}

func (r *permissionRepo) GetByUser(ctx context.Context, userID int64) (*model.Permission, error) {
	var p model.Permission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND app = ?", userID, r.app).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *permissionRepo) CreateIfAbsent(ctx context.Context, p *model.Permission) error {
	if p.App == "" {
		p.App = r.app
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "app"}},
		DoNothing: true,
	}).Create(p).Error
}

func (r *permissionRepo) AddStorageUsed(ctx context.Context, userID int64, delta int64) error {
	// CASE вместо GREATEST/MAX — работает и в Postgres, и в SQLite
	return r.db.WithContext(ctx).Model(&model.Permission{}).
		Where("user_id = ? AND app = ?", userID, r.app).
		Update("storage_used",
			gorm.Expr("CASE WHEN storage_used + ? < 0 THEN 0 ELSE storage_used + ? END", delta, delta)).
		Error
}

func (r *permissionRepo) Update(ctx context.Context, userID int64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Permission{}).
		Where("user_id = ? AND app = ?", userID, r.app).
		Updates(updates).Error
}

func (r *permissionRepo) ListWithUsers(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	err := r.db.WithContext(ctx).
		Where("app = ?", r.app).
		Preload("User").
		Order("user_id").
		Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

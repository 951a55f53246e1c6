package service

import (
	"context"
	"errors"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"

	"gorm.io/gorm"
)

// PermissionService — права и квоты. Строка прав создаётся лениво при
// первом обращении с безопасными значениями по умолчанию.
type PermissionService struct {
	repo                repo.PermissionRepository
	defaultStorageLimit int64
	defaultMaxFileSize  int64
}

func NewPermissionService(r repo.PermissionRepository, defaultStorageLimit, defaultMaxFileSize int64) *PermissionService {
	return &PermissionService{
		repo:                r,
		defaultStorageLimit: defaultStorageLimit,
		defaultMaxFileSize:  defaultMaxFileSize,
	}
}

// GetOrCreate возвращает права пользователя, создавая строку с дефолтами
// при первом обращении. Отсутствие строки никогда не является ошибкой.
func (s *PermissionService) GetOrCreate(ctx context.Context, userID int64) (*model.Permission, error) {
	p, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Дефолты: обычная роль, аплоад выключен до решения администратора
	if err := s.repo.CreateIfAbsent(ctx, &model.Permission{
		UserID:        userID,
		Role:          model.RoleUser,
		UploadEnabled: false,
		StorageLimit:  s.defaultStorageLimit,
		StorageUsed:   0,
		MaxFileSize:   s.defaultMaxFileSize,
	}); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}

// ValidateUpload проверяет допуск аплоада, не меняя состояния. Три
// проверки применяются по порядку, первая сработавшая останавливает
// остальные: выключенный аплоад, лимит размера файла, квота.
func (s *PermissionService) ValidateUpload(p *model.Permission, fileSize int64) error {
	if !p.UploadEnabled {
		return ErrUploadsDisabled
	}
	if fileSize > p.MaxFileSize {
		return ErrFileTooLarge
	}
	if p.StorageUsed+fileSize > p.StorageLimit {
		return ErrQuotaExceeded
	}
	return nil
}

// AdjustStorageUsed атомарно меняет занятое место (плюс при аплоаде,
// минус при окончательном удалении; ниже нуля не опускается).
func (s *PermissionService) AdjustStorageUsed(ctx context.Context, userID int64, delta int64) error {
	return s.repo.AddStorageUsed(ctx, userID, delta)
}

// IsAdmin сообщает, является ли пользователь администратором приложения.
func (s *PermissionService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	p, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}
	return p.Role == model.RoleAdmin, nil
}

// ListUsers возвращает права всех пользователей (admin-панель).
func (s *PermissionService) ListUsers(ctx context.Context) ([]model.Permission, error) {
	return s.repo.ListWithUsers(ctx)
}

// SetUploadEnabled включает или выключает аплоад пользователю.
func (s *PermissionService) SetUploadEnabled(ctx context.Context, userID int64, enabled bool) error {
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, map[string]any{"upload_enabled": enabled})
}

// SetRole назначает роль пользователю.
func (s *PermissionService) SetRole(ctx context.Context, userID int64, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return ErrValidation
	}
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, map[string]any{"role": role})
}

// SetLimits обновляет квоту и/или максимальный размер файла.
// Нулевое значение поля означает «не менять».
func (s *PermissionService) SetLimits(ctx context.Context, userID int64, storageLimit, maxFileSize int64) error {
	if storageLimit < 0 || maxFileSize < 0 {
		return ErrValidation
	}
	updates := map[string]any{}
	if storageLimit > 0 {
		updates["storage_limit"] = storageLimit
	}
	if maxFileSize > 0 {
		updates["max_file_size"] = maxFileSize
	}
	if len(updates) == 0 {
		return nil
	}
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, updates)
}

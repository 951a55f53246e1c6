package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Срок действия подписанной ссылки на скачивание.
const downloadURLTTL = 15 * time.Minute

// Всё вне [A-Za-z0-9._-] заменяется, чтобы имя не попало в ключ
// хранилища как путь.
var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileService — жизненный цикл файла: Active → Trashed → Purged.
// Байты удаляются из объектного хранилища ровно один раз, на переходе
// Trashed → Purged.
type FileService struct {
	files    repo.FileRepository
	folders  repo.FolderRepository
	shares   repo.ShareRepository
	perms    *PermissionService
	store    storage.ObjectStore
	activity *ActivityService
	logger   *zap.SugaredLogger
}

func NewFileService(
	files repo.FileRepository,
	folders repo.FolderRepository,
	shares repo.ShareRepository,
	perms *PermissionService,
	store storage.ObjectStore,
	activity *ActivityService,
	logger *zap.SugaredLogger,
) *FileService {
	return &FileService{
		files:    files,
		folders:  folders,
		shares:   shares,
		perms:    perms,
		store:    store,
		activity: activity,
		logger:   logger,
	}
}

// makeStorageKey строит уникальный ключ объекта: префикс владельца,
// момент загрузки, случайный суффикс и очищенное имя.
func makeStorageKey(ownerID int64, name string) string {
	safe := unsafeKeyChars.ReplaceAllString(name, "_")
	return fmt.Sprintf("u%d/%d-%s-%s", ownerID, time.Now().UnixNano(), uuid.NewString()[:8], safe)
}

// Upload проверяет допуск, кладёт байты в объектное хранилище, создаёт
// метаданные и атомарно увеличивает занятое место.
func (s *FileService) Upload(ctx context.Context, ownerID int64, folderID *int64, name, mimeType string, data []byte) (*model.File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}

	perm, err := s.perms.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	size := int64(len(data))
	if err := s.perms.ValidateUpload(perm, size); err != nil {
		return nil, err
	}

	if folderID != nil {
		if err := s.ensureFolderWritable(ctx, *folderID, ownerID); err != nil {
			return nil, err
		}
	}

	key := makeStorageKey(ownerID, name)
	if err := s.store.Put(ctx, key, bytes.NewReader(data), size, mimeType); err != nil {
		return nil, err
	}

	f := &model.File{
		Name:       name,
		MimeType:   mimeType,
		Size:       size,
		StorageKey: key,
		FolderID:   folderID,
		OwnerID:    ownerID,
	}
	if err := s.files.Create(ctx, f); err != nil {
		// блоб уже загружен — подчищаем, чтобы не копить сирот
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.logger.Warnw("orphan blob cleanup failed", "key", key, "error", derr)
		}
		return nil, err
	}

	if err := s.perms.AdjustStorageUsed(ctx, ownerID, size); err != nil {
		s.logger.Warnw("storage accounting failed", "user_id", ownerID, "error", err)
	}

	s.activity.Log(ctx, ownerID, "file.upload", model.TargetFile, f.ID, f.Name,
		map[string]any{"size": size, "mime_type": mimeType})
	return f, nil
}

// ensureFolderWritable: писать в папку может владелец либо пользователь
// с edit-правом на неё. Проверка живая — право на папку покрывает и
// файлы, добавленные после выдачи.
func (s *FileService) ensureFolderWritable(ctx context.Context, folderID, userID int64) error {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return notFound(err)
	}
	if folder.OwnerID == userID {
		return nil
	}
	grant, err := s.shares.GetGrant(ctx, model.TargetFolder, folderID, userID)
	if err != nil {
		return notFound(err)
	}
	if grant.Permission != model.AccessEdit {
		return ErrNotFound
	}
	return nil
}

// List возвращает не удалённые файлы владельца.
func (s *FileService) List(ctx context.Context, ownerID int64, folderID *int64, starredOnly bool) ([]model.File, error) {
	return s.files.List(ctx, ownerID, folderID, starredOnly)
}

// Rename переименовывает активный файл.
func (s *FileService) Rename(ctx context.Context, fileID, ownerID int64, newName string) (*model.File, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrValidation
	}
	f, err := s.activeOwned(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.files.Update(ctx, f.ID, map[string]any{"name": newName}); err != nil {
		return nil, err
	}

	s.activity.Log(ctx, ownerID, "file.rename", model.TargetFile, f.ID, newName,
		map[string]any{"old_name": f.Name})
	f.Name = newName
	return f, nil
}

// ToggleStar ставит/снимает звёздочку.
func (s *FileService) ToggleStar(ctx context.Context, fileID, ownerID int64, starred bool) error {
	f, err := s.activeOwned(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	return s.files.Update(ctx, f.ID, map[string]any{"is_starred": starred})
}

// Move переносит файл в другую папку (nil — в корень).
func (s *FileService) Move(ctx context.Context, fileID int64, newFolderID *int64, ownerID int64) error {
	f, err := s.activeOwned(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	if newFolderID != nil {
		if _, err := s.folders.GetOwned(ctx, *newFolderID, ownerID); err != nil {
			return notFound(err)
		}
	}
	if err := s.files.SetFolder(ctx, f.ID, newFolderID); err != nil {
		return err
	}

	meta := map[string]any{"old_folder_id": f.FolderID}
	if newFolderID != nil {
		meta["new_folder_id"] = *newFolderID
	}
	s.activity.Log(ctx, ownerID, "file.move", model.TargetFile, f.ID, f.Name, meta)
	return nil
}

// SoftDelete помечает файл удалённым. Квота не освобождается —
// операция обратима.
func (s *FileService) SoftDelete(ctx context.Context, fileID, ownerID int64) error {
	f, err := s.activeOwned(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	now := time.Now()
	if err := s.files.Update(ctx, f.ID, map[string]any{
		"is_deleted": true,
		"deleted_at": now,
	}); err != nil {
		return err
	}

	s.activity.Log(ctx, ownerID, "file.trash", model.TargetFile, f.ID, f.Name, nil)
	return nil
}

// Restore возвращает файл из корзины. Файл не в корзине — not found.
func (s *FileService) Restore(ctx context.Context, fileID, ownerID int64) error {
	f, err := s.trashedOwned(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	if err := s.files.Update(ctx, f.ID, map[string]any{
		"is_deleted": false,
		"deleted_at": nil,
	}); err != nil {
		return err
	}

	s.activity.Log(ctx, ownerID, "file.restore", model.TargetFile, f.ID, f.Name, nil)
	return nil
}

// PermanentlyDelete выполняет переход Trashed → Purged: удаляет блоб,
// затем строку, затем уменьшает занятое место. Если блоб удалить не
// удалось, строка остаётся — байты не могут быть удалены дважды.
func (s *FileService) PermanentlyDelete(ctx context.Context, fileID, ownerID int64) error {
	f, err := s.trashedOwned(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, f.StorageKey); err != nil {
		return err
	}
	if err := s.files.Delete(ctx, f.ID); err != nil {
		return err
	}
	if err := s.perms.AdjustStorageUsed(ctx, ownerID, -f.Size); err != nil {
		s.logger.Warnw("storage accounting failed", "user_id", ownerID, "error", err)
	}

	s.activity.Log(ctx, ownerID, "file.delete", model.TargetFile, f.ID, f.Name,
		map[string]any{"size": f.Size})
	return nil
}

// EmptyTrash окончательно удаляет все файлы корзины владельца и пишет
// одну агрегированную запись в журнал. Возвращает число удалённых файлов.
func (s *FileService) EmptyTrash(ctx context.Context, ownerID int64) (int, error) {
	trashed, err := s.files.ListTrashed(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	var freed int64
	deleted := 0
	for _, f := range trashed {
		if err := s.store.Delete(ctx, f.StorageKey); err != nil {
			s.logger.Warnw("blob delete failed, keeping record", "file_id", f.ID, "error", err)
			continue
		}
		if err := s.files.Delete(ctx, f.ID); err != nil {
			s.logger.Warnw("file record delete failed", "file_id", f.ID, "error", err)
			continue
		}
		freed += f.Size
		deleted++
	}
	if freed > 0 {
		if err := s.perms.AdjustStorageUsed(ctx, ownerID, -freed); err != nil {
			s.logger.Warnw("storage accounting failed", "user_id", ownerID, "error", err)
		}
	}

	s.activity.Log(ctx, ownerID, "trash.empty", "", 0, "",
		map[string]any{"deleted": deleted, "freed": freed})
	return deleted, nil
}

// ListTrash возвращает содержимое корзины.
func (s *FileService) ListTrash(ctx context.Context, ownerID int64) ([]model.File, error) {
	return s.files.ListTrashed(ctx, ownerID)
}

// DownloadURL выдаёт подписанную ссылку на скачивание. Доступ: владелец,
// прямое право на файл либо живое право на его папку.
func (s *FileService) DownloadURL(ctx context.Context, fileID, userID int64) (string, error) {
	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return "", notFound(err)
	}
	if f.IsDeleted {
		return "", ErrNotFound
	}
	if f.OwnerID != userID {
		if !s.hasReadAccess(ctx, f, userID) {
			return "", ErrNotFound
		}
	}
	return s.store.PresignGet(ctx, f.StorageKey, downloadURLTTL)
}

// hasReadAccess: прямое право на файл или право на папку, в которой он
// сейчас лежит.
func (s *FileService) hasReadAccess(ctx context.Context, f *model.File, userID int64) bool {
	if _, err := s.shares.GetGrant(ctx, model.TargetFile, f.ID, userID); err == nil {
		return true
	}
	if f.FolderID != nil {
		if _, err := s.shares.GetGrant(ctx, model.TargetFolder, *f.FolderID, userID); err == nil {
			return true
		}
	}
	return false
}

// activeOwned возвращает не удалённый файл владельца.
func (s *FileService) activeOwned(ctx context.Context, fileID, ownerID int64) (*model.File, error) {
	f, err := s.files.GetOwned(ctx, fileID, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	if f.IsDeleted {
		return nil, ErrNotFound
	}
	return f, nil
}

// trashedOwned возвращает файл владельца, находящийся в корзине.
func (s *FileService) trashedOwned(ctx context.Context, fileID, ownerID int64) (*model.File, error) {
	f, err := s.files.GetOwned(ctx, fileID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !f.IsDeleted {
		return nil, ErrNotFound
	}
	return f, nil
}

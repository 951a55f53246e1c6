package service

import (
	"context"
	"errors"
	"strings"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"

	"gorm.io/gorm"
)

// FolderService — CRUD по дереву папок владельца. Единственный
// структурный инвариант — «лес, а не граф»: проверяется при перемещении.
type FolderService struct {
	folders  repo.FolderRepository
	files    repo.FileRepository
	activity *ActivityService
}

func NewFolderService(folders repo.FolderRepository, files repo.FileRepository, activity *ActivityService) *FolderService {
	return &FolderService{folders: folders, files: files, activity: activity}
}

// Create создаёт папку. Родитель, не принадлежащий владельцу,
// неотличим от несуществующего.
func (s *FolderService) Create(ctx context.Context, ownerID int64, name string, parentID *int64) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}
	if parentID != nil {
		if _, err := s.folders.GetOwned(ctx, *parentID, ownerID); err != nil {
			return nil, notFound(err)
		}
	}

	f := &model.Folder{Name: name, ParentID: parentID, OwnerID: ownerID}
	if err := s.folders.Create(ctx, f); err != nil {
		return nil, err
	}

	s.activity.Log(ctx, ownerID, "folder.create", model.TargetFolder, f.ID, f.Name, nil)
	return f, nil
}

// List возвращает папки владельца с данным родителем (nil — корень).
func (s *FolderService) List(ctx context.Context, ownerID int64, parentID *int64) ([]model.Folder, error) {
	return s.folders.ListByParent(ctx, ownerID, parentID)
}

// Get возвращает папку владельца.
func (s *FolderService) Get(ctx context.Context, folderID, ownerID int64) (*model.Folder, error) {
	f, err := s.folders.GetOwned(ctx, folderID, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

// Rename переименовывает папку.
func (s *FolderService) Rename(ctx context.Context, folderID, ownerID int64, newName string) (*model.Folder, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrValidation
	}
	f, err := s.folders.GetOwned(ctx, folderID, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.folders.Update(ctx, f.ID, map[string]any{"name": newName}); err != nil {
		return nil, err
	}

	s.activity.Log(ctx, ownerID, "folder.rename", model.TargetFolder, f.ID, newName,
		map[string]any{"old_name": f.Name})
	f.Name = newName
	return f, nil
}

// ToggleStar ставит/снимает звёздочку.
func (s *FolderService) ToggleStar(ctx context.Context, folderID, ownerID int64, starred bool) error {
	f, err := s.folders.GetOwned(ctx, folderID, ownerID)
	if err != nil {
		return notFound(err)
	}
	return s.folders.Update(ctx, f.ID, map[string]any{"is_starred": starred})
}

// Move перемещает папку под нового родителя (nil — в корень).
// Отклоняет самородительство и перенос в собственное поддерево:
// цепочка предков нового родителя поднимается до корня, глубина
// ограничена только фактической глубиной дерева.
func (s *FolderService) Move(ctx context.Context, folderID int64, newParentID *int64, ownerID int64) error {
	f, err := s.folders.GetOwned(ctx, folderID, ownerID)
	if err != nil {
		return notFound(err)
	}

	if newParentID != nil {
		if *newParentID == folderID {
			return ErrValidation
		}
		parent, err := s.folders.GetOwned(ctx, *newParentID, ownerID)
		if err != nil {
			return notFound(err)
		}
		if err := s.ensureNotDescendant(ctx, parent, folderID); err != nil {
			return err
		}
	}

	if err := s.folders.SetParent(ctx, f.ID, newParentID); err != nil {
		return err
	}

	meta := map[string]any{"old_parent_id": f.ParentID}
	if newParentID != nil {
		meta["new_parent_id"] = *newParentID
	}
	s.activity.Log(ctx, ownerID, "folder.move", model.TargetFolder, f.ID, f.Name, meta)
	return nil
}

// ensureNotDescendant поднимается по цепочке предков от candidate и
// отклоняет перемещение, если среди них встречается folderID.
// seen-set защищает от зацикливания на повреждённых данных.
func (s *FolderService) ensureNotDescendant(ctx context.Context, candidate *model.Folder, folderID int64) error {
	seen := map[int64]bool{}
	cur := candidate
	for {
		if cur.ID == folderID {
			return ErrValidation
		}
		if cur.ParentID == nil || seen[cur.ID] {
			return nil
		}
		seen[cur.ID] = true

		next, err := s.folders.GetByID(ctx, *cur.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // оборванная ссылка — выше предков нет
			}
			return err
		}
		cur = next
	}
}

// Delete удаляет папку. Файлы внутри не удаляются — их ссылка на папку
// обнуляется явно (на SQLite нет FK-политики SET NULL, на которую можно
// положиться).
func (s *FolderService) Delete(ctx context.Context, folderID, ownerID int64) error {
	f, err := s.folders.GetOwned(ctx, folderID, ownerID)
	if err != nil {
		return notFound(err)
	}
	if err := s.files.DetachFolder(ctx, f.ID); err != nil {
		return err
	}
	if err := s.folders.Delete(ctx, f.ID); err != nil {
		return err
	}

	s.activity.Log(ctx, ownerID, "folder.delete", model.TargetFolder, f.ID, f.Name, nil)
	return nil
}

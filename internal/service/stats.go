package service

import (
	"context"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"
)

// Stats — агрегаты для дашборда пользователя.
type Stats struct {
	Files        int64   `json:"files"`
	Folders      int64   `json:"folders"`
	Trashed      int64   `json:"trashed"`
	Starred      int64   `json:"starred"`
	ShareLinks   int64   `json:"share_links"`
	StorageUsed  int64   `json:"storage_used"`
	StorageLimit int64   `json:"storage_limit"`
	UsagePercent float64 `json:"usage_percent"`
}

// StatsService собирает счётчики и снимок квоты.
type StatsService struct {
	files   repo.FileRepository
	folders repo.FolderRepository
	shares  repo.ShareRepository
	perms   *PermissionService
}

func NewStatsService(files repo.FileRepository, folders repo.FolderRepository, shares repo.ShareRepository, perms *PermissionService) *StatsService {
	return &StatsService{files: files, folders: folders, shares: shares, perms: perms}
}

func (s *StatsService) Get(ctx context.Context, userID int64) (*Stats, error) {
	counts, err := s.files.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	folders, err := s.folders.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	links, err := s.shares.CountLinksByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	perm, err := s.perms.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Files:        counts.Active,
		Folders:      folders,
		Trashed:      counts.Trashed,
		Starred:      counts.Starred,
		ShareLinks:   links,
		StorageUsed:  perm.StorageUsed,
		StorageLimit: perm.StorageLimit,
	}
	if perm.StorageLimit > 0 {
		st.UsagePercent = float64(perm.StorageUsed) / float64(perm.StorageLimit) * 100
	}
	return st, nil
}

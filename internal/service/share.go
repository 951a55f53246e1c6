package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/mail"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	shareTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	shareTokenLength   = 24
)

// Допустимые сроки жизни публичной ссылки.
var shareExpiries = map[string]time.Duration{
	"1h":  time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// ResolvedShare — содержимое публичной ссылки для анонимного просмотра.
// Для папки отдаются только непосредственные дети, без рекурсии.
type ResolvedShare struct {
	TargetType    string         `json:"target_type"`
	File          *model.File    `json:"file,omitempty"`
	Folder        *model.Folder  `json:"folder,omitempty"`
	Files         []model.File   `json:"files,omitempty"`
	Folders       []model.Folder `json:"folders,omitempty"`
	DownloadURL   string         `json:"download_url,omitempty"`
	AllowDownload bool           `json:"allow_download"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
}

// Collaborator — пользователь с внутренним доступом к объекту.
type Collaborator struct {
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Permission string    `json:"permission"`
	SharedAt   time.Time `json:"shared_at"`
}

// SharedItem — элемент списка «доступно мне».
type SharedItem struct {
	TargetType string        `json:"target_type"`
	File       *model.File   `json:"file,omitempty"`
	Folder     *model.Folder `json:"folder,omitempty"`
	Permission string        `json:"permission"`
	SharedBy   int64         `json:"shared_by"`
	SharedAt   time.Time     `json:"shared_at"`
}

// ShareService — публичные ссылки и внутренние права. Один компонент
// обслуживает оба типа целей (file|folder).
type ShareService struct {
	shares   repo.ShareRepository
	files    repo.FileRepository
	folders  repo.FolderRepository
	users    repo.UserRepository
	notifs   repo.NotificationRepository
	mailer   mail.Mailer
	store    storage.ObjectStore
	activity *ActivityService
	logger   *zap.SugaredLogger
}

func NewShareService(
	shares repo.ShareRepository,
	files repo.FileRepository,
	folders repo.FolderRepository,
	users repo.UserRepository,
	notifs repo.NotificationRepository,
	mailer mail.Mailer,
	store storage.ObjectStore,
	activity *ActivityService,
	logger *zap.SugaredLogger,
) *ShareService {
	return &ShareService{
		shares:   shares,
		files:    files,
		folders:  folders,
		users:    users,
		notifs:   notifs,
		mailer:   mailer,
		store:    store,
		activity: activity,
		logger:   logger,
	}
}

// newShareToken генерирует токен из shareTokenLength случайных
// алфавитно-цифровых символов (crypto/rand).
func newShareToken() (string, error) {
	b := make([]byte, shareTokenLength)
	max := big.NewInt(int64(len(shareTokenAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = shareTokenAlphabet[n.Int64()]
	}
	return string(b), nil
}

// CreatePublicLink выписывает публичную ссылку на файл или папку
// владельца. Пароль (если задан) хранится как bcrypt-хеш.
func (s *ShareService) CreatePublicLink(ctx context.Context, ownerID int64, targetType string, targetID int64, password, expiresIn string, allowDownload bool) (*model.ShareLink, error) {
	name, err := s.ownedTargetName(ctx, targetType, targetID, ownerID)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if expiresIn != "" {
		d, ok := shareExpiries[expiresIn]
		if !ok {
			return nil, ErrValidation
		}
		t := time.Now().Add(d)
		expiresAt = &t
	}

	token, err := newShareToken()
	if err != nil {
		return nil, err
	}

	link := &model.ShareLink{
		Token:         token,
		TargetType:    targetType,
		TargetID:      targetID,
		ExpiresAt:     expiresAt,
		AllowDownload: allowDownload,
		CreatedBy:     ownerID,
	}
	if password != "" {
		hash, herr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if herr != nil {
			return nil, herr
		}
		h := string(hash)
		link.PasswordHash = &h
	}

	if err := s.shares.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	s.activity.Log(ctx, ownerID, "share.link.create", targetType, targetID, name,
		map[string]any{"expires_in": expiresIn})
	return link, nil
}

// ResolvePublicLink открывает ссылку анонимному посетителю:
// неизвестный токен — not found, истёкшая — gone, под паролем —
// password required, пока пароль не совпадёт.
func (s *ShareService) ResolvePublicLink(ctx context.Context, token, password string) (*ResolvedShare, error) {
	link, err := s.shares.GetLinkByToken(ctx, token)
	if err != nil {
		return nil, notFound(err)
	}
	if link.ExpiresAt != nil && time.Now().After(*link.ExpiresAt) {
		return nil, ErrGone
	}
	if link.PasswordHash != nil {
		if password == "" {
			return nil, ErrPasswordRequired
		}
		if bcrypt.CompareHashAndPassword([]byte(*link.PasswordHash), []byte(password)) != nil {
			return nil, ErrPasswordRequired
		}
	}

	res := &ResolvedShare{
		TargetType:    link.TargetType,
		AllowDownload: link.AllowDownload,
		ExpiresAt:     link.ExpiresAt,
	}
	switch link.TargetType {
	case model.TargetFile:
		f, ferr := s.files.GetByID(ctx, link.TargetID)
		if ferr != nil {
			return nil, notFound(ferr)
		}
		if f.IsDeleted {
			return nil, ErrNotFound
		}
		res.File = f
		if link.AllowDownload {
			url, uerr := s.store.PresignGet(ctx, f.StorageKey, downloadURLTTL)
			if uerr != nil {
				return nil, uerr
			}
			res.DownloadURL = url
		}
	case model.TargetFolder:
		folder, ferr := s.folders.GetByID(ctx, link.TargetID)
		if ferr != nil {
			return nil, notFound(ferr)
		}
		res.Folder = folder
		if res.Files, err = s.files.ListByFolder(ctx, folder.ID); err != nil {
			return nil, err
		}
		if res.Folders, err = s.folders.ListChildren(ctx, folder.ID); err != nil {
			return nil, err
		}
	default:
		return nil, ErrNotFound
	}
	return res, nil
}

// ListLinks возвращает публичные ссылки, созданные пользователем.
func (s *ShareService) ListLinks(ctx context.Context, ownerID int64) ([]model.ShareLink, error) {
	return s.shares.ListLinksByCreator(ctx, ownerID)
}

// RevokeLink удаляет публичную ссылку создателя.
func (s *ShareService) RevokeLink(ctx context.Context, token string, ownerID int64) error {
	rows, err := s.shares.DeleteLink(ctx, token, ownerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GrantInternalAccess выдаёт пользователю (по email) право view|edit на
// файл или папку. Повторная выдача обновляет уровень. Для папки права
// получают и файлы, лежащие в ней в момент шаринга; добавленные позже
// покрываются только живой проверкой права на папку.
// Уведомление и письмо — best-effort.
func (s *ShareService) GrantInternalAccess(ctx context.Context, ownerID int64, targetType string, targetID int64, granteeEmail, permission string) (*model.AccessGrant, error) {
	if permission != model.AccessView && permission != model.AccessEdit {
		return nil, ErrValidation
	}
	granteeEmail = strings.TrimSpace(strings.ToLower(granteeEmail))
	if granteeEmail == "" {
		return nil, ErrValidation
	}

	name, err := s.ownedTargetName(ctx, targetType, targetID, ownerID)
	if err != nil {
		return nil, err
	}

	grantee, err := s.users.GetUserByEmail(ctx, granteeEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}
	if grantee.ID == ownerID {
		return nil, ErrValidation
	}

	grant := &model.AccessGrant{
		TargetType:       targetType,
		TargetID:         targetID,
		SharedWithUserID: grantee.ID,
		Permission:       permission,
		SharedBy:         ownerID,
	}
	if err := s.shares.UpsertGrant(ctx, grant); err != nil {
		return nil, err
	}

	if targetType == model.TargetFolder {
		files, ferr := s.files.ListByFolder(ctx, targetID)
		if ferr != nil {
			return nil, ferr
		}
		for _, f := range files {
			if uerr := s.shares.UpsertGrant(ctx, &model.AccessGrant{
				TargetType:       model.TargetFile,
				TargetID:         f.ID,
				SharedWithUserID: grantee.ID,
				Permission:       permission,
				SharedBy:         ownerID,
			}); uerr != nil {
				return nil, uerr
			}
		}
	}

	owner, oerr := s.users.GetUserByID(ctx, ownerID)
	ownerName := "Someone"
	if oerr == nil {
		ownerName = owner.Name
	}
	if nerr := s.notifs.Create(ctx, &model.Notification{
		UserID:  grantee.ID,
		Type:    "share",
		Title:   "New shared " + targetType,
		Message: fmt.Sprintf("%s shared %q with you (%s)", ownerName, name, permission),
		Link:    "/shared",
	}); nerr != nil {
		s.logger.Warnw("share notification failed", "grantee_id", grantee.ID, "error", nerr)
	}
	if merr := s.mailer.SendShareNotice(ctx, grantee.Email,
		fmt.Sprintf("%s shared %q with you", ownerName, name),
		fmt.Sprintf("You were given %s access to %s %q.", permission, targetType, name),
	); merr != nil {
		s.logger.Warnw("share mail failed", "to", grantee.Email, "error", merr)
	}

	s.activity.Log(ctx, ownerID, "share.grant", targetType, targetID, name,
		map[string]any{"grantee": grantee.Email, "permission": permission})
	return grant, nil
}

// RevokeInternalAccess отзывает внутреннее право.
func (s *ShareService) RevokeInternalAccess(ctx context.Context, ownerID int64, targetType string, targetID, granteeID int64) error {
	name, err := s.ownedTargetName(ctx, targetType, targetID, ownerID)
	if err != nil {
		return err
	}
	rows, err := s.shares.DeleteGrant(ctx, targetType, targetID, granteeID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.activity.Log(ctx, ownerID, "share.revoke", targetType, targetID, name,
		map[string]any{"grantee_id": granteeID})
	return nil
}

// ListCollaborators возвращает пользователей с внутренним доступом к объекту.
func (s *ShareService) ListCollaborators(ctx context.Context, ownerID int64, targetType string, targetID int64) ([]Collaborator, error) {
	if _, err := s.ownedTargetName(ctx, targetType, targetID, ownerID); err != nil {
		return nil, err
	}
	grants, err := s.shares.ListGrantsForTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	out := make([]Collaborator, 0, len(grants))
	for _, g := range grants {
		c := Collaborator{
			UserID:     g.SharedWithUserID,
			Permission: g.Permission,
			SharedAt:   g.SharedAt,
		}
		if u, uerr := s.users.GetUserByID(ctx, g.SharedWithUserID); uerr == nil {
			c.Email = u.Email
			c.Name = u.Name
		}
		out = append(out, c)
	}
	return out, nil
}

// ListSharedWithMe: без folderID — все объекты, расшаренные пользователю;
// с folderID — содержимое расшаренной папки (живая проверка права, так
// что видны и файлы, добавленные после шаринга).
func (s *ShareService) ListSharedWithMe(ctx context.Context, userID int64, folderID *int64) ([]SharedItem, error) {
	if folderID != nil {
		grant, err := s.shares.GetGrant(ctx, model.TargetFolder, *folderID, userID)
		if err != nil {
			return nil, notFound(err)
		}
		folder, err := s.folders.GetByID(ctx, *folderID)
		if err != nil {
			return nil, notFound(err)
		}
		files, err := s.files.ListByFolder(ctx, folder.ID)
		if err != nil {
			return nil, err
		}
		out := make([]SharedItem, 0, len(files))
		for i := range files {
			out = append(out, SharedItem{
				TargetType: model.TargetFile,
				File:       &files[i],
				Permission: grant.Permission,
				SharedBy:   grant.SharedBy,
				SharedAt:   grant.SharedAt,
			})
		}
		return out, nil
	}

	grants, err := s.shares.ListGrantsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]SharedItem, 0, len(grants))
	for _, g := range grants {
		item := SharedItem{
			TargetType: g.TargetType,
			Permission: g.Permission,
			SharedBy:   g.SharedBy,
			SharedAt:   g.SharedAt,
		}
		switch g.TargetType {
		case model.TargetFile:
			f, ferr := s.files.GetByID(ctx, g.TargetID)
			if ferr != nil || f.IsDeleted {
				continue // цель удалена — право осталось висеть
			}
			item.File = f
		case model.TargetFolder:
			folder, ferr := s.folders.GetByID(ctx, g.TargetID)
			if ferr != nil {
				continue
			}
			item.Folder = folder
		default:
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// ownedTargetName проверяет владение целью шаринга и возвращает её имя.
func (s *ShareService) ownedTargetName(ctx context.Context, targetType string, targetID, ownerID int64) (string, error) {
	switch targetType {
	case model.TargetFile:
		f, err := s.files.GetOwned(ctx, targetID, ownerID)
		if err != nil {
			return "", notFound(err)
		}
		if f.IsDeleted {
			return "", ErrNotFound
		}
		return f.Name, nil
	case model.TargetFolder:
		folder, err := s.folders.GetOwned(ctx, targetID, ownerID)
		if err != nil {
			return "", notFound(err)
		}
		return folder.Name, nil
	default:
		return "", ErrValidation
	}
}

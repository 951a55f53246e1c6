package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/mail"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/model"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/storage"

	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// Дефолты прав для тестов: квота 1000 байт, файл до 100 байт.
const (
	testStorageLimit = int64(1000)
	testMaxFileSize  = int64(100)
)

// testEnv собирает сервисный слой поверх in-memory SQLite и in-memory
// объектного хранилища — без моков, с настоящими репозиториями.
type testEnv struct {
	db       *gorm.DB
	store    *storage.MemoryStore
	notifs   repo.NotificationRepository
	users    *UserService
	perms    *PermissionService
	folders  *FolderService
	files    *FileService
	shares   *ShareService
	activity *ActivityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:svc-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}

	sugar := zap.NewNop().Sugar()
	store := storage.NewMemoryStore()

	userRepo := repo.NewUserRepository(db)
	permRepo := repo.NewPermissionRepository(db)
	folderRepo := repo.NewFolderRepository(db)
	fileRepo := repo.NewFileRepository(db)
	shareRepo := repo.NewShareRepository(db)
	activityRepo := repo.NewActivityRepository(db)
	notifRepo := repo.NewNotificationRepository(db)

	activity := NewActivityService(activityRepo, sugar)
	perms := NewPermissionService(permRepo, testStorageLimit, testMaxFileSize)

	return &testEnv{
		db:       db,
		store:    store,
		notifs:   notifRepo,
		users:    NewUserService(userRepo),
		perms:    perms,
		folders:  NewFolderService(folderRepo, fileRepo, activity),
		files:    NewFileService(fileRepo, folderRepo, shareRepo, perms, store, activity, sugar),
		shares:   NewShareService(shareRepo, fileRepo, folderRepo, userRepo, notifRepo, mail.NopMailer{}, store, activity, sugar),
		activity: activity,
	}
}

// newUser регистрирует пользователя и включает ему аплоад.
func (e *testEnv) newUser(t *testing.T, email string) *model.User {
	t.Helper()
	ctx := context.Background()
	u, err := e.users.Register(ctx, email, "", "secret")
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
	if err := e.perms.SetUploadEnabled(ctx, u.ID, true); err != nil {
		t.Fatalf("failed to enable upload: %v", err)
	}
	return u
}

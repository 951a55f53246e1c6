package main

import (
	"context"
	"net/http"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/config"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/handlers"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/mail"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/middleware"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/repo"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar)
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx := context.Background()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// Объектное хранилище: S3, если настроен bucket, иначе in-memory
	var store storage.ObjectStore
	if cfg.S3Bucket != "" {
		s3Store, serr := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			KeyPrefix: cfg.S3KeyPrefix,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if serr != nil {
			sugar.Fatalw("failed to initialize object storage", "error", serr)
		}
		store = s3Store
	} else {
		sugar.Warnw("S3 bucket not configured, using in-memory object storage")
		store = storage.NewMemoryStore()
	}

	var mailer mail.Mailer = mail.NopMailer{}
	if cfg.SMTPAddr != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	}

	// Repositories
	userRepo := repo.NewUserRepository(gormDB)
	permRepo := repo.NewPermissionRepository(gormDB)
	folderRepo := repo.NewFolderRepository(gormDB)
	fileRepo := repo.NewFileRepository(gormDB)
	shareRepo := repo.NewShareRepository(gormDB)
	activityRepo := repo.NewActivityRepository(gormDB)
	notifRepo := repo.NewNotificationRepository(gormDB)

	// Services
	activityService := service.NewActivityService(activityRepo, sugar)
	userService := service.NewUserService(userRepo)
	permService := service.NewPermissionService(permRepo, cfg.DefaultStorageLimit(), cfg.DefaultMaxFileSize())
	folderService := service.NewFolderService(folderRepo, fileRepo, activityService)
	fileService := service.NewFileService(fileRepo, folderRepo, shareRepo, permService, store, activityService, sugar)
	shareService := service.NewShareService(shareRepo, fileRepo, folderRepo, userRepo, notifRepo, mailer, store, activityService, sugar)
	notificationService := service.NewNotificationService(notifRepo)
	statsService := service.NewStatsService(fileRepo, folderRepo, shareRepo, permService)

	h := handlers.NewHandler(
		userService,
		permService,
		folderService,
		fileService,
		shareService,
		activityService,
		notificationService,
		statsService,
		sugar,
		cfg,
	)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"S3Bucket", cfg.S3Bucket,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}

package handlers

import (
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/config"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/middleware"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	permService *service.PermissionService,
	folderService *service.FolderService,
	fileService *service.FileService,
	shareService *service.ShareService,
	activityService *service.ActivityService,
	notificationService *service.NotificationService,
	statsService *service.StatsService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(cfg.AuthSecret))

	// Handlers
	authHandler := NewAuthHandler(userService, permService, logger, cfg)
	fileHandler := NewFileHandler(fileService, logger, cfg)
	folderHandler := NewFolderHandler(folderService, logger)
	trashHandler := NewTrashHandler(fileService, logger)
	shareHandler := NewShareHandler(shareService, logger)
	activityHandler := NewActivityHandler(activityService, notificationService, statsService, logger)
	adminHandler := NewAdminHandler(permService, logger)

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/me", authHandler.Me)

		// Files
		r.Get("/files", fileHandler.List)
		r.Post("/files/upload", fileHandler.Upload)
		r.Get("/files/download/{id}", fileHandler.Download)
		r.Patch("/files", fileHandler.Update)
		r.Put("/files", fileHandler.Move)
		r.Delete("/files", fileHandler.SoftDelete)

		// Folders
		r.Get("/folders", folderHandler.List)
		r.Post("/folders", folderHandler.Create)
		r.Patch("/folders", folderHandler.Update)
		r.Put("/folders", folderHandler.Move)
		r.Delete("/folders", folderHandler.Delete)

		// Trash
		r.Get("/trash", trashHandler.List)
		r.Post("/trash", trashHandler.Restore)
		r.Delete("/trash", trashHandler.Delete)

		// Sharing
		r.Post("/share", shareHandler.CreateLink)
		r.Get("/share", shareHandler.ListLinks)
		r.Delete("/share", shareHandler.RevokeLink)
		r.Get("/share/access", shareHandler.ListCollaborators)
		r.Post("/share/internal", shareHandler.Grant)
		r.Delete("/share/internal", shareHandler.Revoke)
		r.Get("/share/{token}", shareHandler.Resolve)
		r.Get("/shared", shareHandler.SharedWithMe)

		// Activity, notifications, stats
		r.Get("/activity", activityHandler.Activity)
		r.Get("/notifications", activityHandler.Notifications)
		r.Get("/notifications/count", activityHandler.NotificationCount)
		r.Patch("/notifications", activityHandler.MarkNotificationRead)
		r.Delete("/notifications", activityHandler.DeleteNotification)
		r.Get("/stats", activityHandler.StatsEndpoint)

		// Admin
		r.Get("/admin/users", adminHandler.ListUsers)
		r.Patch("/admin/users", adminHandler.UpdateUser)
	})

	return &Handler{Router: r}
}

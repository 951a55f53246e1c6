package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"

	"go.uber.org/zap"
)

// AdminHandler — управление пользователями (только role=admin).
type AdminHandler struct {
	Perms  *service.PermissionService
	Logger *zap.SugaredLogger
}

func NewAdminHandler(perms *service.PermissionService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{Perms: perms, Logger: logger}
}

// requireAdmin проверяет сессию и роль администратора.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return 0, false
	}
	isAdmin, err := h.Perms.IsAdmin(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return 0, false
	}
	if !isAdmin {
		writeError(w, http.StatusForbidden, "admin access required")
		return 0, false
	}
	return userID, true
}

// ListUsers: GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	perms, err := h.Perms.ListUsers(r.Context())
	if err != nil {
		h.Logger.Errorw("admin user list failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": perms})
}

type adminUpdateRequest struct {
	UserID        int64  `json:"userId"`
	UploadEnabled *bool  `json:"uploadEnabled,omitempty"`
	Role          string `json:"role,omitempty"`
	StorageLimit  int64  `json:"storageLimit,omitempty"`
	MaxFileSize   int64  `json:"maxFileSize,omitempty"`
}

// UpdateUser: PATCH /api/admin/users — переключение аплоада, роли, квот.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	var req adminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	ctx := r.Context()
	if req.UploadEnabled != nil {
		if err := h.Perms.SetUploadEnabled(ctx, req.UserID, *req.UploadEnabled); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Role != "" {
		if err := h.Perms.SetRole(ctx, req.UserID, req.Role); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.StorageLimit > 0 || req.MaxFileSize > 0 {
		if err := h.Perms.SetLimits(ctx, req.UserID, req.StorageLimit, req.MaxFileSize); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	h.Logger.Infow("admin updated user", "admin_id", adminID, "user_id", req.UserID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/config"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/middleware"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"

	"go.uber.org/zap"
)

// AuthHandler — регистрация, вход и выход по cookie-сессии.
type AuthHandler struct {
	Users  *service.UserService
	Perms  *service.PermissionService
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewAuthHandler(users *service.UserService, perms *service.PermissionService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Users: users, Perms: perms, Logger: logger, Config: cfg}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register создаёт пользователя и сразу выписывает сессию.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.Users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// строка прав создаётся сразу, чтобы админ-панель видела новичка
	if _, perr := h.Perms.GetOrCreate(r.Context(), user.ID); perr != nil {
		h.Logger.Warnw("permission bootstrap failed", "user_id", user.ID, "error", perr)
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("failed to set login cookie", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login проверяет учётные данные и выписывает сессию.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("failed to set login cookie", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout сбрасывает cookie сессии.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me возвращает текущего пользователя и его права.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	perm, err := h.Perms.GetOrCreate(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "permission": perm})
}

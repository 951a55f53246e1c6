package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ShareHandler — публичные ссылки и внутренние права доступа.
type ShareHandler struct {
	Shares *service.ShareService
	Logger *zap.SugaredLogger
}

func NewShareHandler(shares *service.ShareService, logger *zap.SugaredLogger) *ShareHandler {
	return &ShareHandler{Shares: shares, Logger: logger}
}

type createLinkRequest struct {
	TargetType    string `json:"targetType"`
	TargetID      int64  `json:"targetId"`
	Password      string `json:"password,omitempty"`
	ExpiresIn     string `json:"expiresIn,omitempty"` // 1h | 24h | 7d | 30d | ""
	AllowDownload bool   `json:"allowDownload"`
}

// CreateLink: POST /api/share
func (h *ShareHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	link, err := h.Shares.CreatePublicLink(r.Context(), userID, req.TargetType, req.TargetID,
		req.Password, req.ExpiresIn, req.AllowDownload)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// ListLinks: GET /api/share
func (h *ShareHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	links, err := h.Shares.ListLinks(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("share list failed", "user_id", userID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}

type revokeLinkRequest struct {
	Token string `json:"token"`
}

// RevokeLink: DELETE /api/share
func (h *ShareHandler) RevokeLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req revokeLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Shares.RevokeLink(r.Context(), req.Token, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Resolve: GET /api/share/{token}?password= — публичный, без сессии.
func (h *ShareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	res, err := h.Shares.ResolvePublicLink(r.Context(), token, r.URL.Query().Get("password"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type grantRequest struct {
	TargetType string `json:"targetType"`
	TargetID   int64  `json:"targetId"`
	Email      string `json:"email"`
	Permission string `json:"permission"` // view | edit
}

// Grant: POST /api/share/internal
func (h *ShareHandler) Grant(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	grant, err := h.Shares.GrantInternalAccess(r.Context(), userID, req.TargetType, req.TargetID,
		req.Email, req.Permission)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}

type revokeGrantRequest struct {
	TargetType string `json:"targetType"`
	TargetID   int64  `json:"targetId"`
	UserID     int64  `json:"userId"`
}

// Revoke: DELETE /api/share/internal
func (h *ShareHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req revokeGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Shares.RevokeInternalAccess(r.Context(), userID, req.TargetType, req.TargetID, req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListCollaborators: GET /api/share/access?targetType=&targetId=
func (h *ShareHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	targetType := r.URL.Query().Get("targetType")
	targetID, err := strconv.ParseInt(r.URL.Query().Get("targetId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid targetId")
		return
	}

	collaborators, err := h.Shares.ListCollaborators(r.Context(), userID, targetType, targetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collaborators": collaborators})
}

// SharedWithMe: GET /api/shared?folderId=
func (h *ShareHandler) SharedWithMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	folderID, err := parseOptionalID(r, "folderId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid folderId")
		return
	}

	items, err := h.Shares.ListSharedWithMe(r.Context(), userID, folderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

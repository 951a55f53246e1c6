package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"

	"go.uber.org/zap"
)

// FolderHandler обрабатывает CRUD по папкам.
type FolderHandler struct {
	Folders *service.FolderService
	Logger  *zap.SugaredLogger
}

func NewFolderHandler(folders *service.FolderService, logger *zap.SugaredLogger) *FolderHandler {
	return &FolderHandler{Folders: folders, Logger: logger}
}

// List: GET /api/folders?parentId=
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	parentID, err := parseOptionalID(r, "parentId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parentId")
		return
	}

	folders, err := h.Folders.List(r.Context(), userID, parentID)
	if err != nil {
		h.Logger.Errorw("folder list failed", "user_id", userID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": folders})
}

type folderCreateRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId,omitempty"`
}

// Create: POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req folderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	folder, err := h.Folders.Create(r.Context(), userID, req.Name, req.ParentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

type folderUpdateRequest struct {
	FolderID int64   `json:"folderId"`
	Name     *string `json:"name,omitempty"`
	Starred  *bool   `json:"starred,omitempty"`
}

// Update: PATCH /api/folders — переименование и/или звёздочка.
func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req folderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name == nil && req.Starred == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Name != nil {
		if _, err := h.Folders.Rename(r.Context(), req.FolderID, userID, *req.Name); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Starred != nil {
		if err := h.Folders.ToggleStar(r.Context(), req.FolderID, userID, *req.Starred); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type folderMoveRequest struct {
	FolderID int64  `json:"folderId"`
	ParentID *int64 `json:"parentId"` // null — в корень
}

// Move: PUT /api/folders — перемещение в дереве.
func (h *FolderHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req folderMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Folders.Move(r.Context(), req.FolderID, req.ParentID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type folderDeleteRequest struct {
	FolderID int64 `json:"folderId"`
}

// Delete: DELETE /api/folders — файлы внутри отвязываются, не удаляются.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req folderDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Folders.Delete(r.Context(), req.FolderID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

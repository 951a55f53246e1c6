package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"

	"go.uber.org/zap"
)

// TrashHandler — корзина: просмотр, восстановление, окончательное удаление.
type TrashHandler struct {
	Files  *service.FileService
	Logger *zap.SugaredLogger
}

func NewTrashHandler(files *service.FileService, logger *zap.SugaredLogger) *TrashHandler {
	return &TrashHandler{Files: files, Logger: logger}
}

// List: GET /api/trash
func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	files, err := h.Files.ListTrash(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("trash list failed", "user_id", userID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

type trashRestoreRequest struct {
	FileID int64 `json:"fileId"`
}

// Restore: POST /api/trash — вернуть файл из корзины.
func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req trashRestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Files.Restore(r.Context(), req.FileID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type trashDeleteRequest struct {
	FileID     int64 `json:"fileId"`
	EmptyTrash bool  `json:"emptyTrash"`
}

// Delete: DELETE /api/trash — окончательное удаление одного файла либо
// всей корзины ({"emptyTrash":true}).
func (h *TrashHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req trashDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.EmptyTrash {
		deleted, err := h.Files.EmptyTrash(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
		return
	}

	if err := h.Files.PermanentlyDelete(r.Context(), req.FileID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/config"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FileHandler обрабатывает CRUD по файлам и загрузку.
type FileHandler struct {
	Files  *service.FileService
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewFileHandler(files *service.FileService, logger *zap.SugaredLogger, cfg *config.Config) *FileHandler {
	return &FileHandler{Files: files, Logger: logger, Config: cfg}
}

// parseOptionalID читает необязательный числовой query-параметр.
func parseOptionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// List: GET /api/files?folderId=&starred=true
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	folderID, err := parseOptionalID(r, "folderId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid folderId")
		return
	}
	starred := r.URL.Query().Get("starred") == "true"

	files, err := h.Files.List(r.Context(), userID, folderID, starred)
	if err != nil {
		h.Logger.Errorw("file list failed", "user_id", userID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// Upload: POST /api/files/upload, multipart form с полями file и folderId.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	// Лимит общего тела запроса
	maxBody := h.Config.DefaultMaxFileSize() + 1*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var folderID *int64
	if raw := r.FormValue("folderId"); raw != "" {
		id, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid folderId")
			return
		}
		folderID = &id
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	file, err := h.Files.Upload(r.Context(), userID, folderID, header.Filename,
		header.Header.Get("Content-Type"), data)
	if err != nil {
		h.Logger.Warnw("upload rejected", "user_id", userID, "name", header.Filename, "error", err)
		writeServiceError(w, err)
		return
	}

	resp := map[string]any{"success": true, "file": file}
	if url, uerr := h.Files.DownloadURL(r.Context(), file.ID, userID); uerr == nil {
		resp["url"] = url
	} else {
		h.Logger.Warnw("presign after upload failed", "file_id", file.ID, "error", uerr)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Download: GET /api/files/download/{id} — подписанная ссылка.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	url, err := h.Files.DownloadURL(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}

type fileUpdateRequest struct {
	FileID  int64   `json:"fileId"`
	Name    *string `json:"name,omitempty"`
	Starred *bool   `json:"starred,omitempty"`
}

// Update: PATCH /api/files — переименование и/или звёздочка.
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req fileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name == nil && req.Starred == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Name != nil {
		if _, err := h.Files.Rename(r.Context(), req.FileID, userID, *req.Name); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Starred != nil {
		if err := h.Files.ToggleStar(r.Context(), req.FileID, userID, *req.Starred); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type fileMoveRequest struct {
	FileID   int64  `json:"fileId"`
	FolderID *int64 `json:"folderId"` // null — в корень
}

// Move: PUT /api/files — перенос между папками.
func (h *FileHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req fileMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Files.Move(r.Context(), req.FileID, req.FolderID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type fileDeleteRequest struct {
	FileID int64 `json:"fileId"`
}

// SoftDelete: DELETE /api/files — перенос в корзину.
func (h *FileHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req fileDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Files.SoftDelete(r.Context(), req.FileID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

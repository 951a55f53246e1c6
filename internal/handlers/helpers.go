package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/middleware"
	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON сериализует ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError отвечает JSON с top-level полем error.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError маппит сентинельные ошибки сервисов в HTTP-статусы.
// Неизвестные ошибки уходят наружу как generic 500, подробности — только
// в серверный лог.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrQuotaExceeded):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrPasswordRequired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrUploadsDisabled):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrGone):
		writeError(w, http.StatusGone, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// requireUser достаёт id пользователя из контекста; без сессии — 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return userID, true
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/SejatiDimedia/Sedia-App-sub000/internal/service"

	"go.uber.org/zap"
)

// ActivityHandler — журнал действий, уведомления и статистика.
type ActivityHandler struct {
	Activities    *service.ActivityService
	Notifs        *service.NotificationService
	Stats         *service.StatsService
	Logger        *zap.SugaredLogger
}

func NewActivityHandler(activity *service.ActivityService, notifications *service.NotificationService, stats *service.StatsService, logger *zap.SugaredLogger) *ActivityHandler {
	return &ActivityHandler{Activities: activity, Notifs: notifications, Stats: stats, Logger: logger}
}

// Activity: GET /api/activity?limit=
func (h *ActivityHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.Activities.List(r.Context(), userID, limit)
	if err != nil {
		h.Logger.Errorw("activity list failed", "user_id", userID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": entries})
}

// Notifications: GET /api/notifications
func (h *ActivityHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.Notifs.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": items})
}

// NotificationCount: GET /api/notifications/count
func (h *ActivityHandler) NotificationCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	n, err := h.Notifs.UnreadCount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": n})
}

type notificationUpdateRequest struct {
	ID  int64 `json:"id"`
	All bool  `json:"all"`
}

// MarkNotificationRead: PATCH /api/notifications — одно ({"id":N}) или
// все ({"all":true}).
func (h *ActivityHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req notificationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.All {
		if err := h.Notifs.MarkAllRead(r.Context(), userID); err != nil {
			writeServiceError(w, err)
			return
		}
	} else {
		if err := h.Notifs.MarkRead(r.Context(), req.ID, userID); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type notificationDeleteRequest struct {
	ID int64 `json:"id"`
}

// DeleteNotification: DELETE /api/notifications
func (h *ActivityHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req notificationDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Notifs.Delete(r.Context(), req.ID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// StatsEndpoint: GET /api/stats
func (h *ActivityHandler) StatsEndpoint(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.Stats.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

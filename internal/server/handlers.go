package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agence-immo/agence/internal/domain"
	"github.com/go-chi/chi/v5"
)

type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

type unreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

type notificationResponse struct {
	Notification domain.Notification `json:"notification"`
}

type markAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	includeRead := true
	if raw := r.URL.Query().Get("includeRead"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "includeRead must be true or false")
			return
		}
		includeRead = v
	}
	userID := sessionFromContext(r.Context()).UserID.String()
	list, err := s.repo.List(r.Context(), userID, includeRead)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: list})
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	userID := sessionFromContext(r.Context()).UserID.String()
	count, err := s.repo.UnreadCount(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadCountResponse{UnreadCount: count})
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	userID := sessionFromContext(r.Context()).UserID.String()
	n, err := s.repo.MarkRead(r.Context(), userID, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, domain.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "notification not found")
		return
	case errors.Is(err, domain.ErrInvalidNotificationID):
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid notification id")
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationResponse{Notification: n})
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID := sessionFromContext(r.Context()).UserID.String()
	updated, err := s.repo.MarkAllRead(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.logger.Info("notifications marked read", "user_id", userID, "updated", updated)
	writeJSON(w, http.StatusOK, markAllReadResponse{Updated: updated})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		"request_id", requestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"error", err.Error(),
	)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travel-orders/internal/domain"
)

// Notification is the wire representation of an inbox entry.
type Notification struct {
	ID        uuid.UUID               `json:"id"`
	Type      string                  `json:"type"`
	Data      domain.NotificationData `json:"data"`
	ReadAt    *time.Time              `json:"read_at"`
	CreatedAt time.Time               `json:"created_at"`
}

type notificationListResponse struct {
	Data []Notification `json:"data"`
}

type markReadResponse struct {
	Message string       `json:"message"`
	Data    Notification `json:"data"`
}

// ListNotifications handles GET /api/me/notificacoes.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	list, err := s.notifications.List(r.Context(), actor)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	data := make([]Notification, len(list))
	for i, n := range list {
		data[i] = notificationToResponse(n)
	}
	writeJSON(w, http.StatusOK, notificationListResponse{Data: data})
}

// MarkNotificationRead handles PATCH /api/me/notificacoes/{id}/read.
// Unknown ids, ids of other users' entries and non-UUID ids are all 404.
func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, r, &domain.NotFoundError{Resource: "notification", ID: raw})
		return
	}

	n, err := s.notifications.MarkAsRead(r.Context(), actor, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, markReadResponse{
		Message: "Notificação marcada como lida.",
		Data:    notificationToResponse(n),
	})
}

func notificationToResponse(n domain.Notification) Notification {
	return Notification{
		ID:        n.ID,
		Type:      n.Type,
		Data:      n.Data,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

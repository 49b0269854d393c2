package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	notes, total, err := h.noteSvc.GetNotifications(r.Context(), userIDFrom(r), pageSize, (page-1)*pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, listData{Items: notes, Total: total})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), userIDFrom(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "notification marked as read")
}

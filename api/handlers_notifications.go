package api

import (
	"net/http"

	"oversight/models"
	"oversight/service"

	"github.com/google/uuid"
)

func (s *Server) callerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(identityOf(r).UserID)
	if err != nil {
		return uuid.Nil, service.ErrUnauthorized
	}
	return id, nil
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve notifications")
		return
	}
	notifications, pagination, err := s.services.Notifications.ListForUser(r.Context(), userID, queryBool(r, "unread"), pageFromQuery(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve notifications")
		return
	}
	respondPage(w, "Notifications retrieved successfully", "notifications", notifications, pagination)
}

func (s *Server) sendNotification(w http.ResponseWriter, r *http.Request) {
	var req models.NotificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.respond(w, r, err, "Failed to send notifications")
		return
	}
	result, err := s.services.Notifications.Send(r.Context(), &req)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to send notifications")
		return
	}
	respondCreated(w, "Notifications sent successfully", result)
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update notification")
		return
	}
	userID, err := s.callerID(r)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update notification")
		return
	}
	if err := s.services.Notifications.MarkRead(r.Context(), id, userID); err != nil {
		s.errors.respond(w, r, err, "Failed to update notification")
		return
	}
	respondOK(w, "Notification marked as read", nil)
}

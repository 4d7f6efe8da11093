package service

import (
	"context"
	"encoding/json"

	"plume/internal/domain"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/ws"
)

// NotificationService persists notifications and pushes them over the
// events websocket when the recipient is connected.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	hub      *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, hub: hub}
}

func (s *NotificationService) Notify(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) error {
	n := &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   marshalData(data),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.BroadcastToUser(userID, map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
	}
	return nil
}

// NotifyStaff fans the notification out to every editor and admin. Rows are
// written per staff member; the live push goes out once per role.
func (s *NotificationService) NotifyStaff(ctx context.Context, notifType, title, body string, data map[string]interface{}) error {
	staff, err := s.userRepo.ListStaff(ctx)
	if err != nil {
		return err
	}
	dataJSON := marshalData(data)
	var firstErr error
	for _, u := range staff {
		n := &models.Notification{
			UserID: u.ID,
			Type:   notifType,
			Title:  title,
			Body:   body,
			Data:   dataJSON,
		}
		if err := s.repo.Create(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.hub != nil {
		payload := map[string]interface{}{
			"type":  "notification",
			"event": notifType,
			"title": title,
			"body":  body,
			"data":  data,
		}
		s.hub.BroadcastToRole(domain.RoleEditor, payload)
		s.hub.BroadcastToRole(domain.RoleAdmin, payload)
	}
	return firstErr
}

func marshalData(data map[string]interface{}) string {
	if data == nil {
		return ""
	}
	b, _ := json.Marshal(data)
	return string(b)
}

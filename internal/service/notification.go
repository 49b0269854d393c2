package service

import (
	"context"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	notes, total, err := s.noteRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list notifications", err)
	}
	return notes, total, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	if err := s.noteRepo.MarkAsRead(ctx, notificationID, userID); err != nil {
		return apperrors.NotFound("notification %d not found", notificationID)
	}
	return nil
}

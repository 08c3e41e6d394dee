package notifications

import (
	"context"
	"errors"
	"fmt"

	"auraestate-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const listLimit = 50

var ErrNotificationNotFound = errors.New("Notification not found")

type Service struct {
	DB *gorm.DB
}

// List returns the user's latest notifications.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").Limit(listLimit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("Failed to get notifications: %w", err)
	}
	return out, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) (*domain.Notification, error) {
	res := s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("is_read", true)
	if res.Error != nil {
		return nil, fmt.Errorf("Failed to update notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotificationNotFound
	}
	var n domain.Notification
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// Notify inserts a notification using db, which may be an open transaction.
func Notify(db *gorm.DB, userID uuid.UUID, kind, title, message, link string) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if link != "" {
		n.Link = &link
	}
	if err := db.Create(n).Error; err != nil {
		return fmt.Errorf("Failed to create notification: %w", err)
	}
	return nil
}

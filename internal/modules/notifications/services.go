package notifications

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify writes a notification. Failures are logged and swallowed: a
// lost notification must never fail the action that triggered it.
func Notify(db *gorm.DB, userID uuid.UUID, notifType, message string) {
	n := Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
	}
	if err := db.Create(&n).Error; err != nil {
		slog.Error("failed to create notification", "type", notifType, "user_id", userID, "error", err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	var rows []Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&rows).Error
	return rows, err
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND read = false", userID).
		Update("read", true).Error
}

// internal/services/notification_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

// NotificationService persists in-app notification rows. Delivery over
// external channels (email, SMS, push) is intentionally absent.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Create(userID uuid.UUID, nType models.NotificationType, title, message string, data models.JSONB) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    nType,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (s *NotificationService) ListForUser(userID uuid.UUID, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return notifications, total, nil
}

// MarkRead marks one of the caller's notifications as read. Marking an
// already-read notification is a no-op, not an error.
func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	var notification models.Notification
	err := s.db.First(&notification, "id = ? AND user_id = ?", notificationID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("notification not found")
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if notification.IsRead {
		return nil
	}

	now := time.Now()
	err = s.db.Model(&notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": &now,
	}).Error
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	return nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	now := time.Now()
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		}).Error
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	return nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}

	return count, nil
}

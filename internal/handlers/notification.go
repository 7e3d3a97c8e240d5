// internal/handlers/notification.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/i18n"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/services"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GET /notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	unreadOnly := false
	if unreadStr := c.Query("unread"); unreadStr != "" {
		if unread, err := strconv.ParseBool(unreadStr); err == nil {
			unreadOnly = unread
		}
	}

	notifications, total, err := h.notificationService.ListForUser(userID, unreadOnly, params)
	if err != nil {
		respondError(c, err)
		return
	}

	unreadCount, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(notifications, total, params)
	utils.SetPaginationHeaders(c, result)
	utils.SuccessResponseWithMeta(c, result.Data, gin.H{
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
		"unread_count": unreadCount,
	})
}

// PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	if err := h.notificationService.MarkRead(userID, notificationID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNotificationRead),
	})
}

// PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNotificationRead),
	})
}

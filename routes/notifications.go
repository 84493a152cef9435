package routes

import (
	"time"

	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/storage"
	"github.com/Hood-Codivo/restar-africa/utils"

	"github.com/kataras/iris/v12"
)

// GetUserNotifications lists the logged-in user's notifications, newest
// first, with an unread count for badges.
func GetUserNotifications(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)

	var notifications []models.Notification
	if err := storage.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var unread int64
	storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread)

	ctx.JSON(iris.Map{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

// MarkNotificationRead marks one of the user's notifications as read.
func MarkNotificationRead(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)
	notificationID := ctx.Params().GetUintDefault("id", 0)

	var notification models.Notification
	if err := storage.DB.
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notification)
}

// MarkAllNotificationsRead clears the user's unread badge in one shot.
func MarkAllNotificationsRead(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)

	now := time.Now()
	if err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "All notifications marked as read"})
}

package controllers

import (
	"net/http"

	"sakuranet-billing/web/db"

	"github.com/gin-gonic/gin"
)

func ListNotifications(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var notifications []db.Notification
	if err := db.DB.Where("user_id = ?", userinfo.ID).
		Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	var unread int64
	db.DB.Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", userinfo.ID, false).Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread":        unread,
	})
}

func MarkNotificationRead(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	result := db.DB.Model(&db.Notification{}).
		Where("id = ? AND user_id = ?", c.Param("id"), userinfo.ID).
		Update("is_read", true)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func MarkAllNotificationsRead(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	if err := db.DB.Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", userinfo.ID, false).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func DeleteNotification(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	result := db.DB.Where("id = ? AND user_id = ?", c.Param("id"), userinfo.ID).
		Delete(&db.Notification{})
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func DeleteAllNotifications(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	if err := db.DB.Where("user_id = ?", userinfo.ID).
		Delete(&db.Notification{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications deleted"})
}

// AdminSendNotification targets one user or, with user_id omitted,
// every registered user.
func AdminSendNotification(c *gin.Context) {
	var body struct {
		UserID  uint   `json:"user_id"`
		Title   string `json:"title"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if body.Title == "" || body.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and message are required"})
		return
	}
	if body.Type == "" {
		body.Type = "info"
	}

	if body.UserID != 0 {
		var user db.User
		db.DB.First(&user, body.UserID)
		if user.ID == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err := db.DB.Create(&db.Notification{
			UserID:  body.UserID,
			Title:   body.Title,
			Message: body.Message,
			Type:    body.Type,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Notification sent"})
		return
	}

	var userIDs []uint
	if err := db.DB.Model(&db.User{}).Pluck("id", &userIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	notifications := make([]db.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, db.Notification{
			UserID:  id,
			Title:   body.Title,
			Message: body.Message,
			Type:    body.Type,
		})
	}
	if len(notifications) > 0 {
		if err := db.DB.CreateInBatches(notifications, 100).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notifications"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Notification sent", "recipients": len(userIDs)})
}

package tasks

import (
	"fmt"
	"time"

	"sakuranet-billing/logger"
	"sakuranet-billing/web/db"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Start schedules the background sweeps. The returned cron is already
// running.
func Start() *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", SuspendExpired)
	c.AddFunc("@hourly", NotifyExpiring)
	c.AddFunc("@hourly", ReconcileInstalling)

	c.Start()
	return c
}

// SuspendExpired flips active services past their expiry date to
// suspended. Suspension is local; the panel server stays in place so
// a renewal can bring it back without reprovisioning.
func SuspendExpired() {
	result := db.DB.Model(&db.Service{}).
		Where("status = ? AND expires_at < ?", db.StatusActive, time.Now()).
		Update("status", db.StatusSuspended)
	if result.Error != nil {
		logger.Error("suspend expired services", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		logger.Info("suspended expired services", zap.Int64("count", result.RowsAffected))
	}
}

// NotifyExpiring warns owners of services expiring within three days.
// The notification message doubles as the dedupe key.
func NotifyExpiring() {
	cutoff := time.Now().Add(3 * 24 * time.Hour)

	var services []db.Service
	if err := db.DB.Where("status = ? AND expires_at < ?", db.StatusActive, cutoff).
		Find(&services).Error; err != nil {
		logger.Error("list expiring services", zap.Error(err))
		return
	}

	for _, svc := range services {
		message := fmt.Sprintf("Service %q expires on %s", svc.Name, svc.ExpiresAt.Format("2006-01-02"))

		var existing int64
		db.DB.Model(&db.Notification{}).
			Where("user_id = ? AND message = ?", svc.UserID, message).Count(&existing)
		if existing > 0 {
			continue
		}

		if err := db.DB.Create(&db.Notification{
			UserID:  svc.UserID,
			Title:   "Service expiring soon",
			Message: message,
			Type:    "warning",
		}).Error; err != nil {
			logger.Error("create expiry notification", zap.Uint("service_id", svc.ID), zap.Error(err))
		}
	}
}

// ReconcileInstalling handles purchase markers left behind by a crash:
// rows still installing with no panel server after an hour are closed
// out, and rows that do have a server are considered installed.
func ReconcileInstalling() {
	cutoff := time.Now().Add(-time.Hour)

	var stuck []db.Service
	if err := db.DB.Where("status = ? AND ptero_server_id IS NULL AND created_at < ?",
		db.StatusInstalling, cutoff).Find(&stuck).Error; err != nil {
		logger.Error("list stuck installing services", zap.Error(err))
		return
	}
	for _, svc := range stuck {
		if err := db.DB.Model(&svc).Update("status", db.StatusCancelled).Error; err != nil {
			logger.Error("cancel stuck service", zap.Uint("service_id", svc.ID), zap.Error(err))
			continue
		}
		// Operator follows up: the debit for this order may need a
		// manual refund depending on where the crash hit.
		logger.Warn("cancelled stuck installing service",
			zap.Uint("service_id", svc.ID),
			zap.Uint("user_id", svc.UserID),
			zap.String("name", svc.Name))
	}

	installWindow := time.Now().Add(-10 * time.Minute)
	result := db.DB.Model(&db.Service{}).
		Where("status = ? AND ptero_server_id IS NOT NULL AND updated_at < ?",
			db.StatusInstalling, installWindow).
		Update("status", db.StatusActive)
	if result.Error != nil {
		logger.Error("activate installed services", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		logger.Info("activated installed services", zap.Int64("count", result.RowsAffected))
	}
}

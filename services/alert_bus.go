package services

import (
	"fmt"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"

	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitAlert persists an alert and pushes it over every channel that is
// wired up. Safe to call before initialization (no-op).
func EmitAlert(userID uint, typ, message string) {
	if _alert.db == nil {
		return
	}
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
	if _alert.ps != nil {
		_alert.ps.PushToUser(userID, "VivaFit", message, map[string]string{
			"type": typ, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}

// NotifyCoins pushes an updated balance to the user's live connections.
// Not persisted; the CoinTransaction row is the durable record.
func NotifyCoins(userID uint, balance int) {
	if _alert.rt != nil {
		_alert.rt.BroadcastCoins(userID, balance)
	}
}

// EmitGoalCompleted fires when a daily habit goal is reached.
func EmitGoalCompleted(userID uint, habitType string) {
	EmitAlert(userID, models.AlertGoalCompleted,
		fmt.Sprintf("Daily %s goal completed, nice work!", habitType))
	if _alert.rt != nil {
		_alert.rt.BroadcastGoalCompleted(userID, habitType)
	}
}

package services

import (
	"context"
	"encoding/json"

	"sosol/internal/models"
	"sosol/internal/money"
	"sosol/internal/store"
	"sosol/internal/websocket"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SideEffects is the explicit home of the "best-effort after commit"
// contract: activity rows, notifications and realtime pushes happen once the
// ledger mutation has committed, and a failure here is logged, never
// propagated. The non-atomicity is intentional and visible, not an accident
// of a swallowed exception inside a transaction.
type SideEffects struct {
	log           zerolog.Logger
	db            store.Execer
	activities    ActivityStore
	notifications NotificationStore
	hub           Hub
}

func NewSideEffects(log zerolog.Logger, db store.Execer, activities ActivityStore, notifications NotificationStore, hub Hub) *SideEffects {
	return &SideEffects{
		log:           log,
		db:            db,
		activities:    activities,
		notifications: notifications,
		hub:           hub,
	}
}

func (e *SideEffects) RecordActivity(ctx context.Context, userID, action, entityType, entityID string, data map[string]string) {
	payload, _ := json.Marshal(data)
	if err := e.activities.Record(ctx, e.db, userID, action, entityType, entityID, string(payload)); err != nil {
		e.log.Warn().Err(err).
			Str("user_id", userID).
			Str("action", action).
			Msg("activity recording failed")
	}
}

func (e *SideEffects) Notify(ctx context.Context, userID, notifType, message string, target models.NotificationTarget) {
	id := uuid.NewString()
	err := e.notifications.Create(ctx, store.NotificationInput{
		ID:      id,
		UserID:  userID,
		Type:    notifType,
		Message: message,
		Target:  target,
	})
	if err != nil {
		e.log.Warn().Err(err).
			Str("user_id", userID).
			Str("type", notifType).
			Msg("notification creation failed")
		return
	}
	e.hub.BroadcastNotification(userID, websocket.NotificationEvent{
		ID:      id,
		Type:    notifType,
		Message: message,
	})
}

func (e *SideEffects) PushBalance(userID, walletID string, balance int64) {
	e.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		WalletID: walletID,
		Balance:  money.FormatMinor(balance),
		Currency: money.Currency,
	})
}

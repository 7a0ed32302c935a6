package store

import (
	"context"

	"sosol/internal/models"
)

type NotificationStore struct {
	db DB
}

func NewNotificationStore(db DB) *NotificationStore {
	return &NotificationStore{db: db}
}

type NotificationInput struct {
	ID      string
	UserID  string
	Type    string
	Message string
	Target  models.NotificationTarget
}

// Create runs against the plain database handle, not a transaction:
// notifications are a post-commit best-effort side effect and must never
// roll back the ledger mutation that produced them.
func (s *NotificationStore) Create(ctx context.Context, input NotificationInput) error {
	referenceType, referenceID := models.EncodeTarget(input.Target)
	query := `
		INSERT INTO notifications (id, user_id, type, message, reference_type, reference_id, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
	`
	_, err := s.db.ExecContext(ctx, query,
		input.ID, input.UserID, input.Type, input.Message, referenceType, referenceID,
	)
	return err
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	var rows []models.Notification
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, message, reference_type, reference_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY is_read, created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return rows, err
}

func (s *NotificationStore) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1) FROM notifications WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return count, err
}

func (s *NotificationStore) MarkRead(ctx context.Context, notificationID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return err
}

func (s *NotificationStore) Delete(ctx context.Context, notificationID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM notifications WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

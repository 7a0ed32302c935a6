package store

import (
	"context"

	"sosol/internal/models"
)

type ActivityStore struct {
	db DB
}

func NewActivityStore(db DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Record appends an activity row. The runner can be a transaction (auth
// audit, written atomically with the action) or the plain database handle
// (post-commit best-effort recording from the ledger flows).
func (s *ActivityStore) Record(ctx context.Context, runner Execer, actorID, action, entityType, entityID, data string) error {
	_, err := runner.ExecContext(ctx, `
		INSERT INTO activities (id, user_id, action, entity_type, entity_id, data)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4, $5)
	`, actorID, action, entityType, entityID, data)
	return err
}

func (s *ActivityStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Activity, error) {
	var rows []models.Activity
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, action, entity_type, entity_id, data, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return rows, err
}

func (s *ActivityStore) ListAll(ctx context.Context, limit, offset int) ([]models.Activity, error) {
	var rows []models.Activity
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, action, entity_type, entity_id, data, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

package repository

import (
	"context"
	"encoding/json"

	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AddActivity appends to a lead's timeline. Contact-type activities also move
// the lead's last contact time, in the same transaction.
func (r *Repository) AddActivity(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Activity{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx, `SELECT 1 FROM leads WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, activity.LeadID)
	if err != nil {
		return domain.Activity{}, err
	}
	if result.RowsAffected() == 0 {
		return domain.Activity{}, ErrNotFound
	}

	activity, err = insertActivity(ctx, tx, activity)
	if err != nil {
		return domain.Activity{}, err
	}

	if activity.Type.CountsAsContact() {
		if _, err := tx.Exec(ctx, `
			UPDATE leads SET last_contact_at = $2, updated_at = now()
			WHERE id = $1
		`, activity.LeadID, activity.CreatedAt); err != nil {
			return domain.Activity{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

func insertActivity(ctx context.Context, tx pgx.Tx, activity domain.Activity) (domain.Activity, error) {
	var metaJSON []byte
	if activity.Metadata != nil {
		encoded, err := json.Marshal(activity.Metadata)
		if err != nil {
			return domain.Activity{}, err
		}
		metaJSON = encoded
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO lead_activities (lead_id, type, description, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, activity.LeadID, string(activity.Type), activity.Description, metaJSON).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

// ListActivities returns the timeline of a lead, newest first.
func (r *Repository) ListActivities(ctx context.Context, leadID uuid.UUID) ([]domain.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, type, description, metadata, created_at
		FROM lead_activities
		WHERE lead_id = $1
		ORDER BY created_at DESC, id
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Activity, 0)
	for rows.Next() {
		var (
			item     domain.Activity
			kind     string
			metaJSON []byte
		)
		if err := rows.Scan(&item.ID, &item.LeadID, &kind, &item.Description, &metaJSON, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Type = domain.ActivityType(kind)
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &item.Metadata); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

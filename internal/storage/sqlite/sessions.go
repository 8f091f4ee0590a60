package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/scoutbot/internal/core"
)

type SessionContextRepo struct {
	db *sql.DB
}

func NewSessionContextRepo(db *sql.DB) *SessionContextRepo {
	return &SessionContextRepo{db: db}
}

func (r *SessionContextRepo) SaveContext(ctx context.Context, sc core.SessionContext) error {
	entities, err := json.Marshal(sc.Entities)
	if err != nil {
		return fmt.Errorf("failed to marshal entities: %w", err)
	}
	if string(entities) == "null" {
		entities = []byte("[]")
	}

	query := `INSERT INTO session_context (session_id, location, topic, entities, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			location = excluded.location,
			topic = excluded.topic,
			entities = excluded.entities,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query, sc.SessionID, sc.Location, sc.Topic, string(entities), sc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save session context: %w", err)
	}
	return nil
}

func (r *SessionContextRepo) GetContext(ctx context.Context, sessionID string) (core.SessionContext, bool, error) {
	query := `SELECT location, topic, entities, updated_at FROM session_context WHERE session_id = ?`

	sc := core.SessionContext{SessionID: sessionID}
	var entities string
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&sc.Location, &sc.Topic, &entities, &sc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SessionContext{}, false, nil
	}
	if err != nil {
		return core.SessionContext{}, false, fmt.Errorf("failed to query session context: %w", err)
	}

	if entities != "" && entities != "[]" {
		if err := json.Unmarshal([]byte(entities), &sc.Entities); err != nil {
			return core.SessionContext{}, false, fmt.Errorf("failed to unmarshal entities: %w", err)
		}
	}
	return sc, true, nil
}

func (r *SessionContextRepo) ListSessionIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT session_id FROM session_context ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SessionContextRepo) DeleteContext(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_context WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session context: %w", err)
	}
	return nil
}

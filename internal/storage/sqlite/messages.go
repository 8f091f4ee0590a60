package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/pkg/log"
)

const (
	insertMessageSQL  = `INSERT INTO messages (session_id, role, content, tool_calls, tool_call_id) VALUES (?, ?, ?, ?, ?)`
	recentMessagesSQL = `SELECT role, content, tool_calls, tool_call_id FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?`
)

// MessagesRepo persists chat history, one row per message.
type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

// encodeToolCalls stores the no-calls case as an empty string so history
// rows without tool traffic stay cheap.
func encodeToolCalls(calls []core.ToolCall) (string, error) {
	if len(calls) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(calls)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool calls: %w", err)
	}
	return string(raw), nil
}

func decodeToolCalls(raw sql.NullString) ([]core.ToolCall, error) {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil, nil
	}
	var calls []core.ToolCall
	if err := json.Unmarshal([]byte(raw.String), &calls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool calls: %w", err)
	}
	return calls, nil
}

func (r *MessagesRepo) AddMessage(ctx context.Context, sessionID string, msg core.Message) error {
	toolCalls, err := encodeToolCalls(msg.ToolCalls)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, insertMessageSQL,
		sessionID, msg.Role, msg.Content, toolCalls, msg.ToolCallID); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// GetMessages returns the last limit messages of a session in
// chronological order.
func (r *MessagesRepo) GetMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	rows, err := r.db.QueryContext(ctx, recentMessagesSQL, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var (
			msg                    core.Message
			content, calls, callID sql.NullString
		)
		if err := rows.Scan(&msg.Role, &content, &calls, &callID); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		msg.Content = content.String
		msg.ToolCallID = callID.String
		if msg.ToolCalls, err = decodeToolCalls(calls); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query walks newest-first; the model wants oldest-first.
	slices.Reverse(messages)

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrConflict reports that a concurrent caller created the same
// (session_key, user_id) pair and the row could not be resolved afterwards.
var ErrConflict = errors.New("session conflict")

// EnsureSession returns the internal identifier for (key, userID), creating
// the session row if it does not exist. Idempotent: calling it twice with the
// same pair returns the same identifier.
func (db *DB) EnsureSession(ctx context.Context, key string, userID int64) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := ensureSessionTx(ctx, tx, key, userID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}
	return id, nil
}

// ensureSessionTx resolves or creates the session row inside tx.
func ensureSessionTx(ctx context.Context, tx *sql.Tx, key string, userID int64) (int64, error) {
	key = strings.TrimSpace(key)

	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT session_id FROM chat_sessions WHERE session_key = ? AND user_id = ?`,
		key, userID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up session: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chat_sessions (session_key, user_id) VALUES (?, ?)`,
		key, userID,
	)
	if err != nil {
		// A concurrent insert may have hit the unique constraint first;
		// re-read before giving up.
		selErr := tx.QueryRowContext(ctx,
			`SELECT session_id FROM chat_sessions WHERE session_key = ? AND user_id = ?`,
			key, userID,
		).Scan(&id)
		if selErr == nil {
			return id, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrConflict, err)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT session_id FROM chat_sessions WHERE session_key = ? AND user_id = ?`,
		key, userID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to read back session: %w", err)
	}
	return id, nil
}

// AppendMessage resolves or creates the session, then inserts one message.
// The ensure and the insert share a transaction; on any failure the message
// is lost and the error reports why.
func (db *DB) AppendMessage(ctx context.Context, key string, userID int64, role, kind, content string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sessionID, err := ensureSessionTx(ctx, tx, key, userID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, sender_type, message_type, text_content) VALUES (?, ?, ?, ?)`,
		sessionID, role, kind, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}
	return nil
}

// LoadHistory returns every message of the session in append order. A missing
// session is not an error; it yields an empty history.
func (db *DB) LoadHistory(ctx context.Context, key string, userID int64) ([]Message, error) {
	sessionID, ok, err := db.lookupSession(ctx, key, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT message_id, session_id, sender_type, message_type, text_content, blob_content, created_at
		 FROM messages WHERE session_id = ? ORDER BY message_id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var (
			m    Message
			text sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.SenderType, &m.Kind, &text, &m.Blob, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Content = text.String
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// LoadRecentHistory returns the last limit text messages of the session in
// chronological order. Storage is read newest first for the LIMIT, then
// reversed so the oldest message comes out first.
func (db *DB) LoadRecentHistory(ctx context.Context, key string, userID int64, limit int) ([]Turn, error) {
	sessionID, ok, err := db.lookupSession(ctx, key, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT sender_type, text_content
		 FROM messages
		 WHERE session_id = ? AND message_type = ?
		 ORDER BY message_id DESC
		 LIMIT ?`,
		sessionID, KindText, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent messages: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var (
			t    Turn
			text sql.NullString
		)
		if err := rows.Scan(&t.Role, &text); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		t.Content = text.String
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Restore chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// ListSessions returns every session key for the user, most recently
// created first.
func (db *DB) ListSessions(ctx context.Context, userID int64) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT session_key FROM chat_sessions WHERE user_id = ? ORDER BY session_id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan session key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// DeleteSession removes the session and all of its messages in one
// transaction. Deleting a session that does not exist succeeds.
func (db *DB) DeleteSession(ctx context.Context, key string, userID int64) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var sessionID int64
	err = tx.QueryRowContext(ctx,
		`SELECT session_id FROM chat_sessions WHERE session_key = ? AND user_id = ?`,
		strings.TrimSpace(key), userID,
	).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

func (db *DB) lookupSession(ctx context.Context, key string, userID int64) (int64, bool, error) {
	var sessionID int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT session_id FROM chat_sessions WHERE session_key = ? AND user_id = ?`,
		strings.TrimSpace(key), userID,
	).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up session: %w", err)
	}
	return sessionID, true, nil
}

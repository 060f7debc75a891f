package store

import (
	"fmt"
	"time"

	"cadence/internal/types"
)

// UpsertReply inserts or replaces a reply row.
func (s *Store) UpsertReply(r types.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO replies (id, owner_id, post_id, parent_reply_id, persona_id, text, scheduled_at, delay_minutes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			post_id = excluded.post_id,
			parent_reply_id = excluded.parent_reply_id,
			persona_id = excluded.persona_id,
			text = excluded.text,
			scheduled_at = excluded.scheduled_at,
			delay_minutes = excluded.delay_minutes,
			status = excluded.status`,
		r.ID, r.OwnerID, r.PostID, r.ParentReplyID, r.PersonaID, r.Text,
		r.ScheduledAt.UTC().Format(time.RFC3339), r.DelayMinutes, string(r.Status))
	if err != nil {
		return fmt.Errorf("failed to upsert reply %s: %w", r.ID, err)
	}
	return nil
}

// ListReplies returns all replies for an owner, ordered by schedule.
func (s *Store) ListReplies(ownerID string) ([]types.Reply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, owner_id, post_id, parent_reply_id, persona_id, text, scheduled_at, delay_minutes, status
		FROM replies WHERE owner_id = ? ORDER BY scheduled_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	var out []types.Reply
	for rows.Next() {
		var r types.Reply
		var scheduledAt, status string
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.PostID, &r.ParentReplyID, &r.PersonaID, &r.Text,
			&scheduledAt, &r.DelayMinutes, &status); err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		r.ScheduledAt, err = time.Parse(time.RFC3339, scheduledAt)
		if err != nil {
			return nil, fmt.Errorf("bad scheduled_at for reply %s: %w", r.ID, err)
		}
		r.Status = types.LifecycleStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteReply removes a reply row.
func (s *Store) DeleteReply(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM replies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reply %s: %w", id, err)
	}
	return nil
}

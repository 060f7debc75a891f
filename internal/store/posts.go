package store

import (
	"fmt"
	"time"

	"cadence/internal/types"
)

// UpsertPost inserts or replaces a post row.
func (s *Store) UpsertPost(p types.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keywordIDs, err := encodeJSON(p.KeywordIDs)
	if err != nil {
		return err
	}
	breakdown, err := encodeJSON(p.QualityBreakdown)
	if err != nil {
		return err
	}
	issues, err := encodeJSON(p.Issues)
	if err != nil {
		return err
	}
	warnings, err := encodeJSON(p.Warnings)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO posts (id, owner_id, community_id, persona_id, title, body, scheduled_at,
			keyword_ids, thread_type, status, quality_score, quality_breakdown, issues, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			community_id = excluded.community_id,
			persona_id = excluded.persona_id,
			title = excluded.title,
			body = excluded.body,
			scheduled_at = excluded.scheduled_at,
			keyword_ids = excluded.keyword_ids,
			thread_type = excluded.thread_type,
			status = excluded.status,
			quality_score = excluded.quality_score,
			quality_breakdown = excluded.quality_breakdown,
			issues = excluded.issues,
			warnings = excluded.warnings`,
		p.ID, p.OwnerID, p.CommunityID, p.PersonaID, p.Title, p.Body,
		p.ScheduledAt.UTC().Format(time.RFC3339), keywordIDs, string(p.ThreadType),
		string(p.Status), p.QualityScore, breakdown, issues, warnings)
	if err != nil {
		return fmt.Errorf("failed to upsert post %s: %w", p.ID, err)
	}
	return nil
}

// ListPosts returns all posts for an owner, ordered by schedule.
func (s *Store) ListPosts(ownerID string) ([]types.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, owner_id, community_id, persona_id, title, body, scheduled_at,
			keyword_ids, thread_type, status, quality_score, quality_breakdown, issues, warnings
		FROM posts WHERE owner_id = ? ORDER BY scheduled_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var out []types.Post
	for rows.Next() {
		var p types.Post
		var scheduledAt, keywordIDs, threadType, status, breakdown, issues, warnings string
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.CommunityID, &p.PersonaID, &p.Title, &p.Body,
			&scheduledAt, &keywordIDs, &threadType, &status, &p.QualityScore, &breakdown, &issues, &warnings); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.ScheduledAt, err = time.Parse(time.RFC3339, scheduledAt)
		if err != nil {
			return nil, fmt.Errorf("bad scheduled_at for post %s: %w", p.ID, err)
		}
		if err := decodeJSON(keywordIDs, &p.KeywordIDs); err != nil {
			return nil, fmt.Errorf("bad keyword_ids for post %s: %w", p.ID, err)
		}
		if err := decodeJSON(breakdown, &p.QualityBreakdown); err != nil {
			return nil, fmt.Errorf("bad quality_breakdown for post %s: %w", p.ID, err)
		}
		if err := decodeJSON(issues, &p.Issues); err != nil {
			return nil, fmt.Errorf("bad issues for post %s: %w", p.ID, err)
		}
		if err := decodeJSON(warnings, &p.Warnings); err != nil {
			return nil, fmt.Errorf("bad warnings for post %s: %w", p.ID, err)
		}
		p.ThreadType = types.ThreadType(threadType)
		p.Status = types.LifecycleStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePost removes a post row and its replies.
func (s *Store) DeletePost(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM replies WHERE post_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete replies for post %s: %w", id, err)
	}
	if _, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}

package store

import (
	"fmt"

	"cadence/internal/types"
)

// UpsertKeyword inserts or replaces a keyword row.
func (s *Store) UpsertKeyword(k types.Keyword) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO keywords (id, owner_id, phrase, category, priority)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			phrase = excluded.phrase,
			category = excluded.category,
			priority = excluded.priority`,
		k.ID, k.OwnerID, k.Phrase, string(k.Category), k.Priority)
	if err != nil {
		return fmt.Errorf("failed to upsert keyword %s: %w", k.ID, err)
	}
	return nil
}

// ListKeywords returns all keywords for an owner.
func (s *Store) ListKeywords(ownerID string) ([]types.Keyword, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, owner_id, phrase, category, priority
		FROM keywords WHERE owner_id = ? ORDER BY priority DESC, phrase`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	var out []types.Keyword
	for rows.Next() {
		var k types.Keyword
		var category string
		if err := rows.Scan(&k.ID, &k.OwnerID, &k.Phrase, &category, &k.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		k.Category = types.KeywordCategory(category)
		out = append(out, k)
	}
	return out, rows.Err()
}

// DeleteKeyword removes a keyword row.
func (s *Store) DeleteKeyword(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM keywords WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword %s: %w", id, err)
	}
	return nil
}

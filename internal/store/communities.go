package store

import (
	"fmt"

	"cadence/internal/types"
)

// UpsertCommunity inserts or replaces a community row.
func (s *Store) UpsertCommunity(c types.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := encodeJSON(c.Rules)
	if err != nil {
		return err
	}
	dayparts, err := encodeJSON(c.Dayparts)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO communities (id, owner_id, name, description, rules, sensitivity, dayparts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			description = excluded.description,
			rules = excluded.rules,
			sensitivity = excluded.sensitivity,
			dayparts = excluded.dayparts`,
		c.ID, c.OwnerID, c.Name, c.Description, rules, string(c.Sensitivity), dayparts)
	if err != nil {
		return fmt.Errorf("failed to upsert community %s: %w", c.ID, err)
	}
	return nil
}

// ListCommunities returns all communities for an owner.
func (s *Store) ListCommunities(ownerID string) ([]types.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, owner_id, name, description, rules, sensitivity, dayparts
		FROM communities WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	defer rows.Close()

	var out []types.Community
	for rows.Next() {
		var c types.Community
		var rules, sensitivity, dayparts string
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &rules, &sensitivity, &dayparts); err != nil {
			return nil, fmt.Errorf("failed to scan community: %w", err)
		}
		if rules != "" && rules != "null" {
			c.Rules = &types.CommunityRules{}
			if err := decodeJSON(rules, c.Rules); err != nil {
				return nil, fmt.Errorf("bad rules column for community %s: %w", c.ID, err)
			}
		}
		if err := decodeJSON(dayparts, &c.Dayparts); err != nil {
			return nil, fmt.Errorf("bad dayparts column for community %s: %w", c.ID, err)
		}
		c.Sensitivity = types.SensitivityTier(sensitivity)
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCommunity removes a community row.
func (s *Store) DeleteCommunity(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM communities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete community %s: %w", id, err)
	}
	return nil
}

package store

import (
	"fmt"

	"cadence/internal/types"
)

// UpsertPersona inserts or replaces a persona row.
func (s *Store) UpsertPersona(p types.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voice, err := encodeJSON(p.Voice)
	if err != nil {
		return err
	}
	expertise, err := encodeJSON(p.Expertise)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO personas (id, owner_id, handle, bio, voice, expertise, style, account_age_days, karma)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			handle = excluded.handle,
			bio = excluded.bio,
			voice = excluded.voice,
			expertise = excluded.expertise,
			style = excluded.style,
			account_age_days = excluded.account_age_days,
			karma = excluded.karma`,
		p.ID, p.OwnerID, p.Handle, p.Bio, voice, expertise, string(p.Style), p.AccountAgeDays, p.Karma)
	if err != nil {
		return fmt.Errorf("failed to upsert persona %s: %w", p.ID, err)
	}
	return nil
}

// ListPersonas returns all personas for an owner.
func (s *Store) ListPersonas(ownerID string) ([]types.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, owner_id, handle, bio, voice, expertise, style, account_age_days, karma
		FROM personas WHERE owner_id = ? ORDER BY handle`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	defer rows.Close()

	var out []types.Persona
	for rows.Next() {
		var p types.Persona
		var voice, expertise, style string
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Handle, &p.Bio, &voice, &expertise, &style, &p.AccountAgeDays, &p.Karma); err != nil {
			return nil, fmt.Errorf("failed to scan persona: %w", err)
		}
		if err := decodeJSON(voice, &p.Voice); err != nil {
			return nil, fmt.Errorf("bad voice column for persona %s: %w", p.ID, err)
		}
		if err := decodeJSON(expertise, &p.Expertise); err != nil {
			return nil, fmt.Errorf("bad expertise column for persona %s: %w", p.ID, err)
		}
		p.Style = types.PostingStyle(style)
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePersona removes a persona row.
func (s *Store) DeletePersona(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM personas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete persona %s: %w", id, err)
	}
	return nil
}

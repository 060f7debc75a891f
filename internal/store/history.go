package store

import (
	"fmt"
	"time"

	"cadence/internal/types"
)

// HistoryRecord is one persisted weekly snapshot: the quality report plus
// usage maps the next run's matcher and saturation checks consume.
type HistoryRecord struct {
	OwnerID     string
	WeekNumber  int
	GeneratedAt time.Time
	Report      *types.QualityReport
	PostCount   int
	ReplyCount  int
	TopicUsage  map[string]int
	VenueUsage  map[string]int
}

// UpsertHistory inserts or replaces a weekly history snapshot.
func (s *Store) UpsertHistory(h HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := encodeJSON(h.Report)
	if err != nil {
		return err
	}
	topics, err := encodeJSON(h.TopicUsage)
	if err != nil {
		return err
	}
	venues, err := encodeJSON(h.VenueUsage)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO calendar_history (owner_id, week_number, generated_at, report, post_count, reply_count, topic_usage, venue_usage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, week_number) DO UPDATE SET
			generated_at = excluded.generated_at,
			report = excluded.report,
			post_count = excluded.post_count,
			reply_count = excluded.reply_count,
			topic_usage = excluded.topic_usage,
			venue_usage = excluded.venue_usage`,
		h.OwnerID, h.WeekNumber, h.GeneratedAt.UTC().Format(time.RFC3339),
		report, h.PostCount, h.ReplyCount, topics, venues)
	if err != nil {
		return fmt.Errorf("failed to upsert history for week %d: %w", h.WeekNumber, err)
	}
	return nil
}

// ListHistory returns an owner's weekly snapshots, most recent week first.
func (s *Store) ListHistory(ownerID string) ([]HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT owner_id, week_number, generated_at, report, post_count, reply_count, topic_usage, venue_usage
		FROM calendar_history WHERE owner_id = ? ORDER BY week_number DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var h HistoryRecord
		var generatedAt, report, topics, venues string
		if err := rows.Scan(&h.OwnerID, &h.WeekNumber, &generatedAt, &report, &h.PostCount, &h.ReplyCount, &topics, &venues); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		h.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("bad generated_at for week %d: %w", h.WeekNumber, err)
		}
		if report != "" && report != "null" {
			h.Report = &types.QualityReport{}
			if err := decodeJSON(report, h.Report); err != nil {
				return nil, fmt.Errorf("bad report for week %d: %w", h.WeekNumber, err)
			}
		}
		if err := decodeJSON(topics, &h.TopicUsage); err != nil {
			return nil, fmt.Errorf("bad topic_usage for week %d: %w", h.WeekNumber, err)
		}
		if err := decodeJSON(venues, &h.VenueUsage); err != nil {
			return nil, fmt.Errorf("bad venue_usage for week %d: %w", h.WeekNumber, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// WeekHistories converts persisted snapshots into the matcher's history
// form, preserving most-recent-first order.
func WeekHistories(records []HistoryRecord) []types.WeekHistory {
	out := make([]types.WeekHistory, 0, len(records))
	for _, h := range records {
		out = append(out, types.WeekHistory{
			WeekNumber:  h.WeekNumber,
			GeneratedAt: h.GeneratedAt,
			TopicUsage:  h.TopicUsage,
			VenueUsage:  h.VenueUsage,
			PostCount:   h.PostCount,
			ReplyCount:  h.ReplyCount,
		})
	}
	return out
}

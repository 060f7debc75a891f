package store

import "fmt"

// Schema versions:
// v1: personas, communities, keywords, posts, replies, calendar_history
const currentSchemaVersion = 1

var schema = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS personas (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		handle TEXT NOT NULL,
		bio TEXT,
		voice TEXT,
		expertise TEXT,
		style TEXT NOT NULL,
		account_age_days INTEGER DEFAULT 0,
		karma INTEGER DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_personas_owner ON personas(owner_id)`,
	`CREATE TABLE IF NOT EXISTS communities (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		rules TEXT,
		sensitivity TEXT NOT NULL,
		dayparts TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_communities_owner ON communities(owner_id)`,
	`CREATE TABLE IF NOT EXISTS keywords (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		phrase TEXT NOT NULL,
		category TEXT NOT NULL,
		priority INTEGER DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_keywords_owner ON keywords(owner_id)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		community_id TEXT NOT NULL,
		persona_id TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		scheduled_at DATETIME NOT NULL,
		keyword_ids TEXT,
		thread_type TEXT NOT NULL,
		status TEXT NOT NULL,
		quality_score REAL DEFAULT 0,
		quality_breakdown TEXT,
		issues TEXT,
		warnings TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_owner ON posts(owner_id)`,
	`CREATE TABLE IF NOT EXISTS replies (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		post_id TEXT NOT NULL,
		parent_reply_id TEXT,
		persona_id TEXT NOT NULL,
		text TEXT NOT NULL,
		scheduled_at DATETIME NOT NULL,
		delay_minutes INTEGER DEFAULT 0,
		status TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_replies_owner ON replies(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_replies_post ON replies(post_id)`,
	`CREATE TABLE IF NOT EXISTS calendar_history (
		owner_id TEXT NOT NULL,
		week_number INTEGER NOT NULL,
		generated_at DATETIME NOT NULL,
		report TEXT,
		post_count INTEGER DEFAULT 0,
		reply_count INTEGER DEFAULT 0,
		topic_usage TEXT,
		venue_usage TEXT,
		PRIMARY KEY (owner_id, week_number)
	)`,
}

// migrate applies the schema and stamps the version.
func (s *Store) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err != nil {
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to stamp schema version: %w", err)
		}
		return nil
	}
	if version < currentSchemaVersion {
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to bump schema version: %w", err)
		}
	}
	return nil
}

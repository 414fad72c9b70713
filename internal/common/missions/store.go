// Package missions reads per-mission search settings from Postgres.
// Every accessor degrades to a documented default so a missing row or a
// database outage never blocks a search.
package missions

import (
	"context"
	"database/sql"

	"research-workers/internal/common/logger"
)

const (
	DefaultMaxResults        = 5
	DefaultSourcePreferences = ""
	DefaultDateRange         = ""
)

// Settings is one mission's search configuration.
type Settings struct {
	MaxResults        int
	SourcePreferences string
	DateRange         string
}

// Store resolves mission settings.
type Store interface {
	SearchMaxResults(ctx context.Context, missionID string) int
	SourcePreferences(ctx context.Context, missionID string) string
	SearchDateRange(ctx context.Context, missionID string) string
}

// PostgresStore reads mission settings from the mission_search_settings
// table.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: log}
}

func (s *PostgresStore) load(ctx context.Context, missionID string) (Settings, bool) {
	defaults := Settings{
		MaxResults:        DefaultMaxResults,
		SourcePreferences: DefaultSourcePreferences,
		DateRange:         DefaultDateRange,
	}

	if s.db == nil || missionID == "" {
		return defaults, false
	}

	var (
		maxResults  sql.NullInt64
		sourcePrefs sql.NullString
		dateRange   sql.NullString
	)

	row := s.db.QueryRowContext(ctx,
		`SELECT max_results, source_preferences, date_range
		 FROM mission_search_settings
		 WHERE mission_id = $1`,
		missionID,
	)

	if err := row.Scan(&maxResults, &sourcePrefs, &dateRange); err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("Failed to load mission settings, using defaults", map[string]interface{}{
				"mission_id": missionID,
				"error":      err.Error(),
			})
		}
		return defaults, false
	}

	out := defaults
	if maxResults.Valid && maxResults.Int64 > 0 {
		out.MaxResults = int(maxResults.Int64)
	}
	if sourcePrefs.Valid {
		out.SourcePreferences = sourcePrefs.String
	}
	if dateRange.Valid {
		out.DateRange = dateRange.String
	}
	return out, true
}

func (s *PostgresStore) SearchMaxResults(ctx context.Context, missionID string) int {
	settings, _ := s.load(ctx, missionID)
	return settings.MaxResults
}

func (s *PostgresStore) SourcePreferences(ctx context.Context, missionID string) string {
	settings, _ := s.load(ctx, missionID)
	return settings.SourcePreferences
}

func (s *PostgresStore) SearchDateRange(ctx context.Context, missionID string) string {
	settings, _ := s.load(ctx, missionID)
	return settings.DateRange
}

// StaticStore returns fixed settings. Used when no mission database is
// wired, and in tests.
type StaticStore struct {
	Settings Settings
}

func NewStaticStore() *StaticStore {
	return &StaticStore{Settings: Settings{
		MaxResults:        DefaultMaxResults,
		SourcePreferences: DefaultSourcePreferences,
		DateRange:         DefaultDateRange,
	}}
}

func (s *StaticStore) SearchMaxResults(ctx context.Context, missionID string) int {
	return s.Settings.MaxResults
}

func (s *StaticStore) SourcePreferences(ctx context.Context, missionID string) string {
	return s.Settings.SourcePreferences
}

func (s *StaticStore) SearchDateRange(ctx context.Context, missionID string) string {
	return s.Settings.DateRange
}

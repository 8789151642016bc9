// Package trends owns the persisted trend records.
package trends

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

// Store reads and writes trend rows. Dates are YYYY-MM-DD strings: a
// scan replaces the whole bucket for its calendar day.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// RecentTitles returns the titles of every trend stored on or after
// sinceDate. Used as the dedup seed.
func (s *Store) RecentTitles(ctx context.Context, sinceDate string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM trends WHERE date >= $1`, sinceDate)
	if err != nil {
		return nil, fmt.Errorf("query recent titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// ReplaceForDate atomically swaps the trend set for one calendar day.
// Delete and insert share a transaction so a re-run either fully
// replaces the day or leaves it untouched.
func (s *Store) ReplaceForDate(ctx context.Context, date string, trends []models.Trend) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trends WHERE date = $1`, date); err != nil {
		return fmt.Errorf("clear trends for %s: %w", date, err)
	}

	for _, trend := range trends {
		sources, err := json.Marshal(trend.Sources)
		if err != nil {
			return fmt.Errorf("marshal sources for %q: %w", trend.Title, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trends (title, category, summary, why_it_matters, content_angle, script, sources, engagement_score, date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			trend.Title, string(trend.Category), trend.Summary, trend.WhyItMatters,
			trend.ContentAngle, trend.Script, sources, trend.EngagementScore, date)
		if err != nil {
			return fmt.Errorf("insert trend %q: %w", trend.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trends for %s: %w", date, err)
	}
	s.logger.WithFields(logging.Fields{
		"date":  date,
		"count": len(trends),
	}).Info("Stored trends")
	return nil
}

// ListRange returns trends whose date bucket is in dates, newest date
// first and highest engagement first within a date, capped at limit.
func (s *Store) ListRange(ctx context.Context, dates []string, limit int) ([]models.Trend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, category, summary, why_it_matters, content_angle, script, sources, engagement_score, date
		FROM trends
		WHERE date = ANY($1)
		ORDER BY date DESC, engagement_score DESC
		LIMIT $2`,
		pq.Array(dates), limit)
	if err != nil {
		return nil, fmt.Errorf("query trends: %w", err)
	}
	defer rows.Close()

	var out []models.Trend
	for rows.Next() {
		var t models.Trend
		var category string
		var sources []byte
		if err := rows.Scan(&t.ID, &t.Title, &category, &t.Summary, &t.WhyItMatters,
			&t.ContentAngle, &t.Script, &sources, &t.EngagementScore, &t.Date); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		t.Category = models.Category(category)
		if len(sources) > 0 {
			if err := json.Unmarshal(sources, &t.Sources); err != nil {
				s.logger.WithError(err).WithField("trend_id", t.ID).Warn("Malformed sources payload")
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

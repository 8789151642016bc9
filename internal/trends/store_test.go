package trends

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, logging.NewLogger()), mock
}

func TestRecentTitles(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery(`SELECT title FROM trends WHERE date >= \$1`).
		WithArgs("2026-08-25").
		WillReturnRows(sqlmock.NewRows([]string{"title"}).
			AddRow("Agents everywhere").
			AddRow("Inference prices drop"))

	titles, err := store.RecentTitles(context.Background(), "2026-08-25")
	require.NoError(t, err)
	assert.Equal(t, []string{"Agents everywhere", "Inference prices drop"}, titles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceForDate_DeleteThenInsertInOneTx(t *testing.T) {
	store, mock := newStore(t)

	trend := models.Trend{
		Title:           "Agents everywhere",
		Category:        models.CategoryTools,
		Summary:         "s",
		WhyItMatters:    "w",
		ContentAngle:    "a",
		Script:          "sc",
		Sources:         []models.TrendSource{{URL: "https://example.com", Platform: "HackerNews", Title: "t"}},
		EngagementScore: 88,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM trends WHERE date = \$1`).
		WithArgs("2026-08-27").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO trends`).
		WithArgs("Agents everywhere", "tools", "s", "w", "a", "sc",
			sqlmock.AnyArg(), 88, "2026-08-27").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.ReplaceForDate(context.Background(), "2026-08-27", []models.Trend{trend})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceForDate_InsertFailureRollsBack(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM trends WHERE date = \$1`).
		WithArgs("2026-08-27").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO trends`).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := store.ReplaceForDate(context.Background(), "2026-08-27", []models.Trend{{Title: "x"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRange(t *testing.T) {
	store, mock := newStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "title", "category", "summary", "why_it_matters",
		"content_angle", "script", "sources", "engagement_score", "date",
	}).AddRow(
		"id-1", "Agents everywhere", "tools", "s", "w", "a", "sc",
		[]byte(`[{"url":"https://example.com","platform":"HackerNews","title":"t"}]`), 88, "2026-08-27",
	)

	mock.ExpectQuery(`SELECT id, title, category, summary`).
		WithArgs(sqlmock.AnyArg(), 15).
		WillReturnRows(rows)

	got, err := store.ListRange(context.Background(), []string{"2026-08-27", "2026-08-26"}, 15)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.CategoryTools, got[0].Category)
	require.Len(t, got[0].Sources, 1)
	assert.Equal(t, "HackerNews", got[0].Sources[0].Platform)
	assert.NoError(t, mock.ExpectationsWereMet())
}

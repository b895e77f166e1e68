package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/repository/models"
	"wikiquiz/internal/util"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// uniqueViolationCode is the PostgreSQL SQLSTATE for unique constraint violations.
const uniqueViolationCode = "23505"

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// LookupByURL implements domain.QuizRepository
func (a *QuizDatabaseAdapter) LookupByURL(ctx context.Context, url string) (*domain.QuizRecord, error) {
	var modelQuiz models.Quiz
	query := `SELECT
		id,
		url,
		title,
		date_generated,
		scraped_content,
		raw_html,
		full_quiz_data
	FROM quizzes
	WHERE url = $1`

	err := a.db.GetContext(ctx, &modelQuiz, query, url)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up quiz by URL: %w", err)
	}
	return toDomainRecord(&modelQuiz), nil
}

// Insert implements domain.QuizRepository. The database assigns id and
// date_generated; both are written back into record on success. A unique
// constraint violation on url is reported as a DuplicateKey domain error so
// the caller can re-read the winning row.
func (a *QuizDatabaseAdapter) Insert(ctx context.Context, record *domain.QuizRecord) error {
	modelQuiz := toModelQuiz(record)
	if modelQuiz == nil {
		return fmt.Errorf("cannot insert nil record")
	}

	query := `INSERT INTO quizzes (
		url, title, scraped_content, raw_html, full_quiz_data
	) VALUES (
		$1, $2, $3, $4, $5
	) RETURNING id, date_generated`

	err := a.db.QueryRowxContext(ctx, query,
		modelQuiz.URL,
		modelQuiz.Title,
		modelQuiz.ScrapedContent,
		modelQuiz.RawHTML,
		modelQuiz.FullQuizData,
	).Scan(&modelQuiz.ID, &modelQuiz.DateGenerated)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicateKeyError(record.URL)
		}
		return fmt.Errorf("failed to insert quiz: %w", err)
	}

	record.ID = modelQuiz.ID
	record.DateGenerated = modelQuiz.DateGenerated
	return nil
}

// GetByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.QuizRecord, error) {
	var modelQuiz models.Quiz
	query := `SELECT
		id,
		url,
		title,
		date_generated,
		scraped_content,
		raw_html,
		full_quiz_data
	FROM quizzes
	WHERE id = $1`

	err := a.db.GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %d: %w", id, err)
	}
	return toDomainRecord(&modelQuiz), nil
}

// ListRecords implements domain.QuizRepository. Records come back newest
// first.
func (a *QuizDatabaseAdapter) ListRecords(ctx context.Context) ([]domain.QuizSummary, error) {
	var modelQuizzes []models.Quiz
	query := `SELECT
		id,
		url,
		title,
		date_generated
	FROM quizzes
	ORDER BY date_generated DESC`

	if err := a.db.SelectContext(ctx, &modelQuizzes, query); err != nil {
		return nil, fmt.Errorf("failed to list quiz records: %w", err)
	}

	summaries := make([]domain.QuizSummary, 0, len(modelQuizzes))
	for _, mq := range modelQuizzes {
		summaries = append(summaries, domain.QuizSummary{
			ID:            mq.ID,
			URL:           mq.URL,
			Title:         mq.Title,
			DateGenerated: mq.DateGenerated,
		})
	}
	return summaries, nil
}

// Stats implements domain.QuizRepository
func (a *QuizDatabaseAdapter) Stats(ctx context.Context) (*domain.CacheStats, error) {
	counts := struct {
		TotalCached int64 `db:"total_cached"`
		RecentWeek  int64 `db:"recent_week"`
	}{}
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	query := `SELECT
		COUNT(*) AS total_cached,
		COUNT(*) FILTER (WHERE date_generated >= $1) AS recent_week
	FROM quizzes`

	if err := a.db.GetContext(ctx, &counts, query, weekAgo); err != nil {
		return nil, fmt.Errorf("failed to count cached quizzes: %w", err)
	}

	return &domain.CacheStats{
		TotalCached:     counts.TotalCached,
		RecentWeekCount: counts.RecentWeek,
	}, nil
}

// Helper functions for model conversion
func toDomainRecord(m *models.Quiz) *domain.QuizRecord {
	if m == nil {
		return nil
	}
	return &domain.QuizRecord{
		ID:             m.ID,
		URL:            m.URL,
		Title:          m.Title,
		DateGenerated:  m.DateGenerated,
		ScrapedContent: util.NullStringToString(m.ScrapedContent),
		RawHTML:        util.NullStringToString(m.RawHTML),
		QuizData:       m.FullQuizData,
	}
}

func toModelQuiz(d *domain.QuizRecord) *models.Quiz {
	if d == nil {
		return nil
	}
	return &models.Quiz{
		ID:             d.ID,
		URL:            d.URL,
		Title:          d.Title,
		DateGenerated:  d.DateGenerated,
		ScrapedContent: util.StringToNullString(d.ScrapedContent),
		RawHTML:        util.StringToNullString(d.RawHTML),
		FullQuizData:   d.QuizData,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

package models

import (
	"database/sql"
	"time"
)

// Quiz is the persistence shape of a generated quiz package.
type Quiz struct {
	ID             int64          `db:"id"`              // BIGSERIAL primary key
	URL            string         `db:"url"`             // Normalized article URL, unique
	Title          string         `db:"title"`           // Article title at generation time
	DateGenerated  time.Time      `db:"date_generated"`  // Assigned by the database on insert
	ScrapedContent sql.NullString `db:"scraped_content"` // Extracted paragraph text
	RawHTML        sql.NullString `db:"raw_html"`        // Page HTML as fetched
	FullQuizData   string         `db:"full_quiz_data"`  // Serialized quiz package JSON
}

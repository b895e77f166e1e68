package domain

import "context"

// QuizRepository defines the interface for quiz record persistence
type QuizRepository interface {
	// LookupByURL returns the record stored for the trimmed URL, or
	// (nil, nil) when no record exists.
	LookupByURL(ctx context.Context, url string) (*QuizRecord, error)

	// Insert persists a new record and fills ID and DateGenerated from the
	// store. A concurrent insert for the same URL surfaces as a
	// DUPLICATE_KEY domain error; callers recover by re-running
	// LookupByURL, which is guaranteed to succeed because rows are never
	// deleted.
	Insert(ctx context.Context, record *QuizRecord) error

	// GetByID returns a record by its surrogate key, or (nil, nil) when
	// no record exists.
	GetByID(ctx context.Context, id int64) (*QuizRecord, error)

	// ListRecords returns summaries of all records, newest first.
	ListRecords(ctx context.Context) ([]QuizSummary, error)

	// Stats returns the total record count and the count generated within
	// the last 7 days (UTC).
	Stats(ctx context.Context) (*CacheStats, error)
}

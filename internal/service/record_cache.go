package service

import (
	"context"
	"encoding/json"
	"time"

	"wikiquiz/internal/cache"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"

	"go.uber.org/zap"
)

// DefaultRecordTTL applies when the configuration does not set one.
const DefaultRecordTTL = 24 * time.Hour

// cachedRecord is the cache wire form of a quiz record. Only the fields
// needed to serve a response are cached; the page snapshot stays in Postgres.
type cachedRecord struct {
	ID            int64     `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	DateGenerated time.Time `json:"date_generated"`
	QuizData      string    `json:"quiz_data"`
}

// RecordCacheService fronts the persistent store with a Redis copy of
// generated records keyed by hashed URL. The database stays the source of
// truth; callers treat every error here as a miss.
type RecordCacheService interface {
	GetRecord(ctx context.Context, url string) (*domain.QuizRecord, error)
	PutRecord(ctx context.Context, record *domain.QuizRecord) error
}

// recordCacheServiceImpl implements RecordCacheService
type recordCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewRecordCacheService creates a new instance of recordCacheServiceImpl
func NewRecordCacheService(cacheClient domain.Cache, ttl time.Duration) RecordCacheService {
	if ttl <= 0 {
		ttl = DefaultRecordTTL
	}
	return &recordCacheServiceImpl{
		cache: cacheClient,
		ttl:   ttl,
	}
}

// recordCacheKey hashes the URL so arbitrarily long article URLs stay
// well-formed Redis keys.
func recordCacheKey(url string) string {
	return cache.GenerateCacheKey("quiz", "record", cache.HashKey(url))
}

// GetRecord returns the cached record for the URL, or (nil, nil) on a miss.
func (s *recordCacheServiceImpl) GetRecord(ctx context.Context, url string) (*domain.QuizRecord, error) {
	if s.cache == nil {
		return nil, nil
	}

	key := recordCacheKey(url)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err == domain.ErrCacheMiss {
			logger.Get().Debug("RecordCacheService: cache miss",
				zap.String("key", key),
				zap.String("url", url))
			return nil, nil
		}
		logger.Get().Error("RecordCacheService: cache read failed",
			zap.Error(err),
			zap.String("key", key),
			zap.String("url", url))
		return nil, err
	}

	var entry cachedRecord
	if errUnmarshal := json.Unmarshal([]byte(raw), &entry); errUnmarshal != nil {
		logger.Get().Warn("RecordCacheService: dropping undecodable cache entry",
			zap.Error(errUnmarshal),
			zap.String("key", key),
			zap.String("url", url))
		return nil, nil
	}

	return &domain.QuizRecord{
		ID:            entry.ID,
		URL:           entry.URL,
		Title:         entry.Title,
		DateGenerated: entry.DateGenerated,
		QuizData:      entry.QuizData,
	}, nil
}

// PutRecord stores the serving fields of the record under the URL's key.
func (s *recordCacheServiceImpl) PutRecord(ctx context.Context, record *domain.QuizRecord) error {
	if s.cache == nil {
		return nil
	}
	if record == nil {
		logger.Get().Warn("RecordCacheService: PutRecord called with nil record, not caching")
		return nil
	}

	entry := cachedRecord{
		ID:            record.ID,
		URL:           record.URL,
		Title:         record.Title,
		DateGenerated: record.DateGenerated,
		QuizData:      record.QuizData,
	}
	data, errMarshal := json.Marshal(entry)
	if errMarshal != nil {
		logger.Get().Error("RecordCacheService: failed to marshal record for caching",
			zap.Error(errMarshal),
			zap.Int64("id", record.ID))
		return errMarshal
	}

	key := recordCacheKey(record.URL)
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("RecordCacheService: cache write failed",
			zap.Error(err),
			zap.String("key", key),
			zap.String("url", record.URL))
		return err
	}

	logger.Get().Debug("RecordCacheService: record cached",
		zap.String("key", key),
		zap.Int64("id", record.ID))
	return nil
}

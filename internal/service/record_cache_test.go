package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wikiquiz/internal/adapter"
	"wikiquiz/internal/cache"
	"wikiquiz/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordTestKey(url string) string {
	return cache.GenerateCacheKey("quiz", "record", cache.HashKey(url))
}

func marshalCachedRecord(t *testing.T, record *domain.QuizRecord) string {
	t.Helper()
	payload, err := json.Marshal(cachedRecord{
		ID:            record.ID,
		URL:           record.URL,
		Title:         record.Title,
		DateGenerated: record.DateGenerated,
		QuizData:      record.QuizData,
	})
	require.NoError(t, err)
	return string(payload)
}

func TestRecordCacheService_GetRecord(t *testing.T) {
	ctx := context.Background()
	url := "https://en.wikipedia.org/wiki/Vienna"
	key := recordTestKey(url)

	t.Run("Hit", func(t *testing.T) {
		db, mockRedis := redismock.NewClientMock()
		svc := NewRecordCacheService(adapter.NewRedisCacheAdapter(db), time.Hour)

		record := sampleRecord(t, 7)
		mockRedis.ExpectGet(key).SetVal(marshalCachedRecord(t, record))

		got, err := svc.GetRecord(ctx, url)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.URL, got.URL)
		assert.Equal(t, record.Title, got.Title)
		assert.Equal(t, record.QuizData, got.QuizData)
		assert.True(t, record.DateGenerated.Equal(got.DateGenerated))
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		db, mockRedis := redismock.NewClientMock()
		svc := NewRecordCacheService(adapter.NewRedisCacheAdapter(db), time.Hour)

		mockRedis.ExpectGet(key).RedisNil()

		got, err := svc.GetRecord(ctx, url)

		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		db, mockRedis := redismock.NewClientMock()
		svc := NewRecordCacheService(adapter.NewRedisCacheAdapter(db), time.Hour)

		mockRedis.ExpectGet(key).SetErr(errors.New("connection refused"))

		got, err := svc.GetRecord(ctx, url)

		assert.Error(t, err)
		assert.Nil(t, got)
	})

	t.Run("UndecodableEntryTreatedAsMiss", func(t *testing.T) {
		db, mockRedis := redismock.NewClientMock()
		svc := NewRecordCacheService(adapter.NewRedisCacheAdapter(db), time.Hour)

		mockRedis.ExpectGet(key).SetVal("{not json")

		got, err := svc.GetRecord(ctx, url)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("NilCacheActsAsMiss", func(t *testing.T) {
		svc := NewRecordCacheService(nil, time.Hour)

		got, err := svc.GetRecord(ctx, url)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRecordCacheService_PutRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mockRedis := redismock.NewClientMock()
		svc := NewRecordCacheService(adapter.NewRedisCacheAdapter(db), time.Hour)

		record := sampleRecord(t, 7)
		mockRedis.ExpectSet(recordTestKey(record.URL), marshalCachedRecord(t, record), time.Hour).SetVal("OK")

		err := svc.PutRecord(ctx, record)

		assert.NoError(t, err)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})

	t.Run("DefaultTTLApplied", func(t *testing.T) {
		db, mockRedis := redismock.NewClientMock()
		svc := NewRecordCacheService(adapter.NewRedisCacheAdapter(db), 0)

		record := sampleRecord(t, 7)
		mockRedis.ExpectSet(recordTestKey(record.URL), marshalCachedRecord(t, record), DefaultRecordTTL).SetVal("OK")

		err := svc.PutRecord(ctx, record)

		assert.NoError(t, err)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		db, mockRedis := redismock.NewClientMock()
		svc := NewRecordCacheService(adapter.NewRedisCacheAdapter(db), time.Hour)

		record := sampleRecord(t, 7)
		mockRedis.ExpectSet(recordTestKey(record.URL), marshalCachedRecord(t, record), time.Hour).
			SetErr(errors.New("connection refused"))

		err := svc.PutRecord(ctx, record)

		assert.Error(t, err)
	})

	t.Run("NilRecordIgnored", func(t *testing.T) {
		db, mockRedis := redismock.NewClientMock()
		svc := NewRecordCacheService(adapter.NewRedisCacheAdapter(db), time.Hour)

		err := svc.PutRecord(ctx, nil)

		assert.NoError(t, err)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})
}

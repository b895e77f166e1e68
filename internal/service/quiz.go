package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// minArticleLength is the shortest extracted text (in characters) worth
// sending to the model.
const minArticleLength = 200

// QuizService defines the interface for quiz generation and lookup operations
type QuizService interface {
	// GenerateOrGet serves the stored quiz package for the URL, generating
	// and persisting one first if none exists.
	GenerateOrGet(ctx context.Context, url string) (*dto.QuizResponse, error)

	// PreviewTitle fetches the article just far enough to confirm it is
	// reachable and report its title.
	PreviewTitle(ctx context.Context, url string) (*dto.PreviewResponse, error)

	// History lists all generated quizzes, newest first.
	History(ctx context.Context) ([]dto.HistoryItemResponse, error)

	// GetQuizByID returns one stored quiz package.
	GetQuizByID(ctx context.Context, id int64) (*dto.QuizDetailResponse, error)

	// CacheStats reports how many quiz records the store holds.
	CacheStats(ctx context.Context) (*dto.CacheStatsResponse, error)
}

// quizService implements QuizService
type quizService struct {
	repo        domain.QuizRepository
	scraper     domain.ArticleScraper
	synthesizer domain.QuizSynthesizer
	recordCache RecordCacheService
	group       singleflight.Group
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	repo domain.QuizRepository,
	scraper domain.ArticleScraper,
	synthesizer domain.QuizSynthesizer,
	recordCache RecordCacheService,
) QuizService {
	return &quizService{
		repo:        repo,
		scraper:     scraper,
		synthesizer: synthesizer,
		recordCache: recordCache,
	}
}

// GenerateOrGet implements QuizService
func (s *quizService) GenerateOrGet(ctx context.Context, url string) (*dto.QuizResponse, error) {
	url = strings.TrimSpace(url)

	record, err := s.lookup(ctx, url)
	if err != nil {
		return nil, err
	}
	if record != nil {
		logger.Get().Info("Serving stored quiz record",
			zap.String("url", url),
			zap.Int64("id", record.ID))
		return s.toCachedResponse(record)
	}

	// The singleflight group collapses concurrent same-URL generations in
	// this process. Correctness does not depend on it: the unique
	// constraint on url decides the race, here and across processes.
	v, err, _ := s.group.Do(url, func() (interface{}, error) {
		return s.generate(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.QuizResponse), nil
}

// generate runs the miss path: fetch, gate, synthesize, persist. A losing
// insert race is absorbed by re-reading the winner's record.
func (s *quizService) generate(ctx context.Context, url string) (*dto.QuizResponse, error) {
	logger.Get().Info("Generating quiz package", zap.String("url", url))

	article, err := s.scraper.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if length := utf8.RuneCountInString(article.Text); length < minArticleLength {
		logger.Get().Warn("Extracted article text below minimum length",
			zap.String("url", url),
			zap.Int("length", length))
		return nil, domain.NewInsufficientContentError(length)
	}

	output, err := s.synthesizer.Synthesize(ctx, url, article.Title, article.Text)
	if err != nil {
		return nil, err
	}

	quizData, err := json.Marshal(output)
	if err != nil {
		return nil, domain.NewInternalError("Failed to serialize quiz package", err)
	}

	record := &domain.QuizRecord{
		URL:            url,
		Title:          output.Title,
		ScrapedContent: article.Text,
		RawHTML:        article.RawHTML,
		QuizData:       string(quizData),
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		if domain.IsDomainErrorWithCode(err, domain.ErrDuplicateKey) {
			logger.Get().Info("Concurrent generation won the insert race, serving the stored record",
				zap.String("url", url))
			winner, lookupErr := s.repo.LookupByURL(ctx, url)
			if lookupErr != nil {
				return nil, domain.NewInternalError("Database error", lookupErr)
			}
			if winner == nil {
				return nil, domain.NewInternalError("Database error", err)
			}
			s.backfillRecordCache(ctx, winner)
			return s.toCachedResponse(winner)
		}
		return nil, domain.NewInternalError("Failed to store quiz record", err)
	}

	logger.Get().Info("Quiz package generated and stored",
		zap.String("url", url),
		zap.Int64("id", record.ID),
		zap.Int("questions", len(output.Quiz)))
	s.backfillRecordCache(ctx, record)

	return &dto.QuizResponse{
		QuizPackageResponse: toQuizPackage(output),
		ID:                  record.ID,
		Cached:              false,
	}, nil
}

// lookup checks the record cache, then the database. A database hit
// back-fills the cache.
func (s *quizService) lookup(ctx context.Context, url string) (*domain.QuizRecord, error) {
	if s.recordCache != nil {
		record, err := s.recordCache.GetRecord(ctx, url)
		if err != nil {
			logger.Get().Warn("Record cache lookup failed, falling back to the database",
				zap.Error(err),
				zap.String("url", url))
		} else if record != nil {
			return record, nil
		}
	}

	record, err := s.repo.LookupByURL(ctx, url)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up quiz record", err)
	}
	if record != nil {
		s.backfillRecordCache(ctx, record)
	}
	return record, nil
}

func (s *quizService) backfillRecordCache(ctx context.Context, record *domain.QuizRecord) {
	if s.recordCache == nil {
		return
	}
	if err := s.recordCache.PutRecord(ctx, record); err != nil {
		logger.Get().Warn("Record cache write failed",
			zap.Error(err),
			zap.Int64("id", record.ID),
			zap.String("url", record.URL))
	}
}

// toCachedResponse decodes a stored record into the generation response
// shape, flagged as a cache hit.
func (s *quizService) toCachedResponse(record *domain.QuizRecord) (*dto.QuizResponse, error) {
	output, err := parseStoredOutput(record)
	if err != nil {
		return nil, err
	}
	return &dto.QuizResponse{
		QuizPackageResponse: toQuizPackage(output),
		ID:                  record.ID,
		Cached:              true,
		DateGenerated:       record.DateGenerated.UTC().Format(time.RFC3339),
	}, nil
}

// PreviewTitle implements QuizService
func (s *quizService) PreviewTitle(ctx context.Context, url string) (*dto.PreviewResponse, error) {
	url = strings.TrimSpace(url)

	article, err := s.scraper.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return &dto.PreviewResponse{
		URL:   url,
		Title: article.Title,
		Valid: true,
	}, nil
}

// History implements QuizService
func (s *quizService) History(ctx context.Context) ([]dto.HistoryItemResponse, error) {
	summaries, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quiz records", err)
	}

	items := make([]dto.HistoryItemResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, dto.HistoryItemResponse{
			ID:            summary.ID,
			URL:           summary.URL,
			Title:         summary.Title,
			DateGenerated: summary.DateGenerated.UTC().Format(time.RFC3339),
		})
	}
	return items, nil
}

// GetQuizByID implements QuizService
func (s *quizService) GetQuizByID(ctx context.Context, id int64) (*dto.QuizDetailResponse, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz record", err)
	}
	if record == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}

	output, err := parseStoredOutput(record)
	if err != nil {
		return nil, err
	}
	return &dto.QuizDetailResponse{
		QuizPackageResponse: toQuizPackage(output),
		ID:                  record.ID,
		DateGenerated:       record.DateGenerated.UTC().Format(time.RFC3339),
	}, nil
}

// CacheStats implements QuizService
func (s *quizService) CacheStats(ctx context.Context) (*dto.CacheStatsResponse, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to read cache statistics", err)
	}
	return &dto.CacheStatsResponse{
		TotalCached: stats.TotalCached,
		RecentWeek:  stats.RecentWeekCount,
	}, nil
}

func parseStoredOutput(record *domain.QuizRecord) (*domain.QuizOutput, error) {
	var output domain.QuizOutput
	if err := json.Unmarshal([]byte(record.QuizData), &output); err != nil {
		return nil, domain.NewInternalError("Stored quiz data is not decodable", err)
	}
	return &output, nil
}

func toQuizPackage(output *domain.QuizOutput) dto.QuizPackageResponse {
	items := make([]dto.QuizItemResponse, 0, len(output.Quiz))
	for _, item := range output.Quiz {
		items = append(items, dto.QuizItemResponse{
			Question:    item.Question,
			Options:     item.Options,
			Answer:      item.Answer,
			Difficulty:  item.Difficulty,
			Explanation: item.Explanation,
		})
	}
	return dto.QuizPackageResponse{
		URL:     output.URL,
		Title:   output.Title,
		Summary: output.Summary,
		KeyEntities: dto.KeyEntitiesResponse{
			People:        output.KeyEntities.People,
			Organizations: output.KeyEntities.Organizations,
			Locations:     output.KeyEntities.Locations,
		},
		Sections:      output.Sections,
		Quiz:          items,
		RelatedTopics: output.RelatedTopics,
	}
}

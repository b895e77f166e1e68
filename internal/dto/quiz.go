package dto

// GenerateQuizRequest is the request body for quiz generation and preview
// @Description Request body carrying the Wikipedia article URL
type GenerateQuizRequest struct {
	URL string `json:"url"`
}

// KeyEntitiesResponse groups the entities extracted from the article
type KeyEntitiesResponse struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// QuizItemResponse represents one multiple-choice question in the API response
type QuizItemResponse struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"` // easy, medium or hard
	Explanation string   `json:"explanation"`
}

// QuizPackageResponse is the generated package body shared by the
// generation and detail responses
type QuizPackageResponse struct {
	URL           string              `json:"url"`
	Title         string              `json:"title"`
	Summary       string              `json:"summary"`
	KeyEntities   KeyEntitiesResponse `json:"key_entities"`
	Sections      []string            `json:"sections"`
	Quiz          []QuizItemResponse  `json:"quiz"`
	RelatedTopics []string            `json:"related_topics"`
}

// QuizResponse represents a generated quiz package in the API response
// @Description Generated quiz package with cache metadata
type QuizResponse struct {
	QuizPackageResponse
	ID            int64  `json:"id"`
	Cached        bool   `json:"cached"`
	DateGenerated string `json:"date_generated,omitempty"` // present on cache hits only
}

// QuizDetailResponse represents a stored quiz package looked up by id
type QuizDetailResponse struct {
	QuizPackageResponse
	ID            int64  `json:"id"`
	DateGenerated string `json:"date_generated"`
}

// PreviewResponse confirms that a URL points at a fetchable article
type PreviewResponse struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Valid bool   `json:"valid"`
}

// HistoryItemResponse is one row of the generation history listing
type HistoryItemResponse struct {
	ID            int64  `json:"id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	DateGenerated string `json:"date_generated"`
}

// CacheStatsResponse reports how many quiz records the store holds
type CacheStatsResponse struct {
	TotalCached int64 `json:"total_cached"`
	RecentWeek  int64 `json:"recent_week"`
}

// RootResponse describes the service and its endpoints
type RootResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

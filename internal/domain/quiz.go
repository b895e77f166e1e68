package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// QuizRecord is the persisted result of one generation run. Records are
// written once and never updated; the URL is the unique cache key.
type QuizRecord struct {
	ID             int64
	URL            string
	Title          string
	DateGenerated  time.Time
	ScrapedContent string
	RawHTML        string
	QuizData       string // serialized QuizOutput
}

// QuizSummary is the listing view of a record (no payload).
type QuizSummary struct {
	ID            int64
	URL           string
	Title         string
	DateGenerated time.Time
}

// CacheStats reports how many records the store holds.
type CacheStats struct {
	TotalCached     int64
	RecentWeekCount int64
}

// QuizItem is a single multiple-choice question. Options keep their display
// order; Answer must equal one of them verbatim.
type QuizItem struct {
	Question    string   `json:"question" validate:"required"`
	Options     []string `json:"options" validate:"required,len=4,dive,required"`
	Answer      string   `json:"answer" validate:"required"`
	Difficulty  string   `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Explanation string   `json:"explanation" validate:"required"`
}

// KeyEntities groups the entities mentioned in the article.
type KeyEntities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// QuizOutput is the full generated package as returned by the model and
// validated before persistence.
type QuizOutput struct {
	URL           string      `json:"url" validate:"required"`
	Title         string      `json:"title"`
	Summary       string      `json:"summary" validate:"required"`
	KeyEntities   KeyEntities `json:"key_entities"`
	Sections      []string    `json:"sections" validate:"required,min=4,max=6,dive,required"`
	Quiz          []QuizItem  `json:"quiz" validate:"required,min=5,max=10,dive"`
	RelatedTopics []string    `json:"related_topics" validate:"required,min=3,max=5,dive,required"`
}

var quizValidator = newQuizValidator()

func newQuizValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(quizItemStructLevel, QuizItem{})
	return v
}

// quizItemStructLevel enforces the cross-field rule the tag syntax cannot
// express: the answer must match one option exactly.
func quizItemStructLevel(sl validator.StructLevel) {
	item := sl.Current().Interface().(QuizItem)
	for _, opt := range item.Options {
		if item.Answer == opt {
			return
		}
	}
	sl.ReportError(item.Answer, "Answer", "answer", "eqoneoption", "")
}

// Normalize lowercases difficulty labels in place. Called after parsing and
// before Validate so that capitalized labels from the model still pass.
func (q *QuizOutput) Normalize() {
	for i := range q.Quiz {
		q.Quiz[i].Difficulty = strings.ToLower(q.Quiz[i].Difficulty)
	}
}

// Validate checks the structure against the output schema: field presence,
// list-length bounds, the difficulty label set, and answer membership.
func (q *QuizOutput) Validate() error {
	return quizValidator.Struct(q)
}

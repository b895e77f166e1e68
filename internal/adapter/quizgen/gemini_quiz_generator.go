package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"wikiquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// maxArticleRunes bounds how much article text is handed to the model.
const maxArticleRunes = 18000

// defaultAttemptTimeout bounds a single generation attempt when the
// configuration does not say otherwise.
const defaultAttemptTimeout = 90 * time.Second

// nudgeSuffix is appended to the prompt for the single retry after a
// malformed response.
const nudgeSuffix = "\n\nREMINDER: Return ONLY pure JSON that exactly matches the schema. No markdown."

const promptTemplate = `You are an expert educational content generator specializing in creating high-quality quizzes from Wikipedia articles.

Your task is to analyze the provided Wikipedia article and generate a comprehensive quiz package.

CRITICAL RULES:
1. Use ONLY facts explicitly stated in the article text - NO external knowledge or assumptions
2. Questions must be directly answerable from the article content
3. All four options must be plausible to avoid obvious answers
4. Explanations should reference specific sections or context from the article
5. Distribute difficulty levels: ~40% easy, ~40% medium, ~20% hard
6. Extract entities that are actually mentioned in the text
7. Return VALID JSON matching the schema EXACTLY (no markdown, no comments, no extra keys)

TASKS:
1. **Summary**: Write a 2-3 sentence concise summary capturing the main topic and key points
2. **Key Entities**: Extract entities that appear prominently in the article:
   - people: Named individuals mentioned
   - organizations: Companies, institutions, groups
   - locations: Cities, countries, regions
3. **Sections**: List 4-6 main section headings or topic areas covered
4. **Quiz**: Generate 5-10 multiple-choice questions:
   - Each question must have EXACTLY 4 options
   - One correct answer that matches one of the options exactly
   - Difficulty: easy (basic facts), medium (requires understanding), hard (detailed knowledge)
   - Explanation: Brief reason citing article section or context
5. **Related Topics**: Suggest 3-5 related Wikipedia topics for further reading

JSON SCHEMA (return ONLY this, nothing else):
{
  "url": "{url}",
  "title": "{title}",
  "summary": "string (2-3 sentences)",
  "key_entities": {
    "people": ["string"],
    "organizations": ["string"],
    "locations": ["string"]
  },
  "sections": ["string"],
  "quiz": [
    {
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "answer": "string (must match one option exactly)",
      "difficulty": "easy" | "medium" | "hard",
      "explanation": "string (reference article section/context)"
    }
  ],
  "related_topics": ["string"]
}

ARTICLE DATA:
URL: {url}
TITLE: {title}

ARTICLE TEXT:
{article_text}

Generate the quiz now. Return ONLY valid JSON, no other text.
`

// GeminiQuizGenerator implements domain.QuizSynthesizer on top of a
// langchaingo model.
type GeminiQuizGenerator struct {
	llm       llms.Model
	modelName string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewGeminiQuizGenerator creates a new instance of GeminiQuizGenerator.
func NewGeminiQuizGenerator(llm llms.Model, modelName string, timeout time.Duration, logger *zap.Logger) (domain.QuizSynthesizer, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm client cannot be nil")
	}
	if modelName == "" {
		return nil, fmt.Errorf("Gemini model name cannot be empty")
	}
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiQuizGenerator{
		llm:       llm,
		modelName: modelName,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// Synthesize implements domain.QuizSynthesizer. A malformed response earns
// exactly one retry with a reminder appended to the prompt; a second failure
// surfaces as a synthesis error carrying the retry's diagnostic.
func (g *GeminiQuizGenerator) Synthesize(ctx context.Context, url, title, articleText string) (*domain.QuizOutput, error) {
	prompt := buildPrompt(url, title, truncateRunes(articleText, maxArticleRunes))

	output, firstErr := g.tryOnce(ctx, prompt)
	if firstErr == nil {
		finalizeOutput(output, url, title)
		return output, nil
	}

	g.logger.Warn("Retrying quiz generation after failed attempt",
		zap.String("model", g.modelName),
		zap.String("url", url),
		zap.Error(firstErr))

	output, retryErr := g.tryOnce(ctx, prompt+nudgeSuffix)
	if retryErr == nil {
		finalizeOutput(output, url, title)
		return output, nil
	}

	return nil, domain.NewSynthesisFailedError(
		fmt.Sprintf("Model %s failed. Last error: %v", g.modelName, retryErr),
		firstErr,
	)
}

func (g *GeminiQuizGenerator) tryOnce(ctx context.Context, prompt string) (*domain.QuizOutput, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.llm.Call(attemptCtx, prompt, llms.WithModel(g.modelName))
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	text := cleanJSONText(response)
	if text == "" {
		return nil, errors.New("empty model response")
	}

	var output domain.QuizOutput
	if err := json.Unmarshal([]byte(text), &output); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}

	output.Normalize()
	if err := output.Validate(); err != nil {
		return nil, fmt.Errorf("model response failed schema validation: %w", err)
	}
	return &output, nil
}

// finalizeOutput pins the output to the requested article URL. The model may
// echo a cleaned-up title; it is kept unless empty.
func finalizeOutput(output *domain.QuizOutput, url, title string) {
	output.URL = url
	if output.Title == "" {
		output.Title = title
	}
}

func buildPrompt(url, title, articleText string) string {
	return strings.NewReplacer(
		"{url}", url,
		"{title}", title,
		"{article_text}", articleText,
	).Replace(promptTemplate)
}

// truncateRunes caps s at n runes, leaving shorter strings untouched.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// cleanJSONText peels markdown fences and surrounding chatter off a model
// response. Fenced blocks lose their backticks and an optional leading
// "json" language tag; responses that still are not brace-wrapped are cut
// down to the span from the first "{" to the last "}".
func cleanJSONText(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.Trim(text, "`")
		if strings.HasPrefix(text, "json") {
			text = strings.TrimLeftFunc(text[4:], unicode.IsSpace)
		}
	}
	if !(strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}")) {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start != -1 && end > start {
			text = text[start : end+1]
		}
	}
	return text
}

// Static assertion to ensure GeminiQuizGenerator implements QuizSynthesizer
var _ domain.QuizSynthesizer = (*GeminiQuizGenerator)(nil)

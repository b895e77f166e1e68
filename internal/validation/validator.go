package validation

import (
	"strconv"
	"strings"

	"wikiquiz/internal/domain"
)

// Validator checks request inputs before they reach the service layer
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuizRequest checks the URL of a generation request. Any
// http(s) URL is accepted; whether it resolves is the fetcher's business.
func (v *Validator) ValidateGenerateQuizRequest(url string) error {
	if !HasHTTPScheme(strings.TrimSpace(url)) {
		return domain.NewInvalidInputError("Invalid URL")
	}
	return nil
}

// ValidatePreviewRequest checks the URL of a preview request, which must
// additionally point into Wikipedia's article namespace.
func (v *Validator) ValidatePreviewRequest(url string) error {
	trimmed := strings.TrimSpace(url)
	if !HasHTTPScheme(trimmed) {
		return domain.NewInvalidInputError("Invalid URL")
	}
	if !strings.Contains(trimmed, "wikipedia.org/wiki/") {
		return domain.NewInvalidInputError("URL must be a Wikipedia article")
	}
	return nil
}

// ValidateQuizID parses the :id path parameter into a record id.
func (v *Validator) ValidateQuizID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("id", raw)}
	}
	return id, nil
}

// HasHTTPScheme reports whether the URL names an http or https resource.
func HasHTTPScheme(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

package domain

import "context"

// QuizSynthesizer defines the interface (port) for producing a schema-valid
// QuizOutput from extracted article text via a generative backend.
type QuizSynthesizer interface {
	// Synthesize prompts the backend with the article text and returns the
	// validated output. The implementation retries exactly once with a
	// corrective reminder when the first response fails to parse or
	// validate; if both attempts fail it returns a SYNTHESIS_FAILED domain
	// error carrying the last diagnostic.
	Synthesize(ctx context.Context, url, title, articleText string) (*QuizOutput, error)
}

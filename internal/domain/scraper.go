package domain

import "context"

// Article is the extracted content of one fetched page.
type Article struct {
	Title   string
	Text    string
	RawHTML string
}

// ArticleScraper defines the interface (port) for fetching and extracting
// article content. Implementations are stateless and safe for concurrent use.
type ArticleScraper interface {
	// Fetch retrieves the page at url and extracts title and plain text.
	// A 403/429 that also defeated the mobile fallback surfaces as a
	// FETCH_BLOCKED domain error; other HTTP failures as FETCH_FAILED.
	Fetch(ctx context.Context, url string) (*Article, error)
}

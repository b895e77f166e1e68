package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"wikiquiz/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	desktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	mobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"

	acceptHeader         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguageHeader = "en-US,en;q=0.9"

	// Selectors stripped from the content region before paragraph extraction.
	junkSelectors = "sup.reference, table, .mw-references-wrap, span.mw-editsection, div.reflist"

	fetchTimeout = 20 * time.Second
)

// statusError reports a non-2xx response from the article source.
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// WikipediaScraper implements domain.ArticleScraper over plain HTTP with
// browser-like headers. Wikipedia answers 403/429 to unadorned clients, so a
// blocked desktop fetch is retried once against the mobile host with a
// mobile user agent.
type WikipediaScraper struct {
	client *http.Client
}

// NewWikipediaScraper creates a scraper using the given HTTP client. Passing
// nil selects a default client with a 20 second timeout.
func NewWikipediaScraper(client *http.Client) domain.ArticleScraper {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &WikipediaScraper{client: client}
}

// Fetch implements domain.ArticleScraper
func (s *WikipediaScraper) Fetch(ctx context.Context, url string) (*domain.Article, error) {
	html, err := s.fetch(ctx, url, desktopUserAgent)
	if err != nil {
		var stErr *statusError
		if errors.As(err, &stErr) && isBlockedStatus(stErr.Code) {
			mobileURL := strings.Replace(url, "https://en.wikipedia.org", "https://m.wikipedia.org", 1)
			html, err = s.fetch(ctx, mobileURL, mobileUserAgent)
		}
	}
	if err != nil {
		var stErr *statusError
		if errors.As(err, &stErr) {
			if isBlockedStatus(stErr.Code) {
				return nil, domain.NewFetchBlockedError(stErr.Code)
			}
			return nil, domain.NewFetchFailedError(stErr.Code, stErr)
		}
		return nil, domain.NewFetchFailedError(0, err)
	}

	title, text := extractArticle(html)
	return &domain.Article{
		Title:   title,
		Text:    text,
		RawHTML: html,
	}, nil
}

func (s *WikipediaScraper) fetch(ctx context.Context, url, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguageHeader)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &statusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return string(body), nil
}

func isBlockedStatus(code int) bool {
	return code == http.StatusForbidden || code == http.StatusTooManyRequests
}

// extractArticle pulls the title and readable paragraph text out of a
// Wikipedia page. The content region differs between desktop and mobile
// renderings, so several selectors are tried in order.
func extractArticle(html string) (title, text string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "Untitled", ""
	}

	heading := doc.Find("h1#firstHeading").First()
	if heading.Length() == 0 {
		heading = doc.Find("h1").First()
	}
	if heading.Length() == 0 {
		title = "Untitled"
	} else {
		title = strings.TrimSpace(heading.Text())
	}

	content := doc.Find("#mw-content-text").First()
	if content.Length() == 0 {
		content = doc.Find("div.mw-parser-output").First()
	}
	if content.Length() == 0 {
		content = doc.Find("section.mw-parser-output").First()
	}
	if content.Length() == 0 {
		content = doc.Find("main").First()
	}
	if content.Length() == 0 {
		return title, ""
	}

	content.Find(junkSelectors).Remove()

	var paragraphs []string
	content.Find("p").Each(func(_ int, p *goquery.Selection) {
		if para := collapseWhitespace(p.Text()); para != "" {
			paragraphs = append(paragraphs, para)
		}
	})

	return title, strings.Join(paragraphs, "\n\n")
}

// collapseWhitespace flattens whitespace runs to single spaces and trims the
// ends, approximating how a browser renders the paragraph.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"wikiquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const desktopArticleHTML = `<!DOCTYPE html>
<html>
<head><title>Vienna - Wikipedia</title></head>
<body>
<h1 id="firstHeading">Vienna</h1>
<div id="mw-content-text">
  <div class="mw-parser-output">
    <table class="infobox"><tbody><tr><td>Infobox junk</td></tr></tbody></table>
    <p>Vienna is the capital of <a href="/wiki/Austria">Austria</a>.<sup class="reference">[1]</sup></p>
    <p>   </p>
    <p>It lies on the
       Danube   river.</p>
    <span class="mw-editsection">edit</span>
    <div class="reflist"><p>Reference list text</p></div>
  </div>
</div>
</body>
</html>`

const mobileArticleHTML = `<!DOCTYPE html>
<html>
<body>
<h1>Vienna</h1>
<section class="mw-parser-output">
<p>Vienna is the capital and largest city of Austria.</p>
</section>
</body>
</html>`

// roundTripperFunc lets a test stand in for the network.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func htmlResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newFakeScraper(rt roundTripperFunc) domain.ArticleScraper {
	return NewWikipediaScraper(&http.Client{Transport: rt})
}

func TestWikipediaScraper_Fetch_Success(t *testing.T) {
	var gotRequests []*http.Request
	s := newFakeScraper(func(req *http.Request) (*http.Response, error) {
		gotRequests = append(gotRequests, req)
		return htmlResponse(http.StatusOK, desktopArticleHTML), nil
	})

	article, err := s.Fetch(context.Background(), "https://en.wikipedia.org/wiki/Vienna")

	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, "Vienna", article.Title)
	assert.Equal(t, "Vienna is the capital of Austria.\n\nIt lies on the Danube river.", article.Text)
	assert.Equal(t, desktopArticleHTML, article.RawHTML)

	require.Len(t, gotRequests, 1)
	req := gotRequests[0]
	assert.Equal(t, "en.wikipedia.org", req.URL.Host)
	assert.Equal(t, desktopUserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, acceptHeader, req.Header.Get("Accept"))
	assert.Equal(t, acceptLanguageHeader, req.Header.Get("Accept-Language"))
}

func TestWikipediaScraper_Fetch_MobileFallback(t *testing.T) {
	var gotRequests []*http.Request
	s := newFakeScraper(func(req *http.Request) (*http.Response, error) {
		gotRequests = append(gotRequests, req)
		if req.URL.Host == "en.wikipedia.org" {
			return htmlResponse(http.StatusForbidden, "blocked"), nil
		}
		return htmlResponse(http.StatusOK, mobileArticleHTML), nil
	})

	article, err := s.Fetch(context.Background(), "https://en.wikipedia.org/wiki/Vienna")

	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, "Vienna", article.Title)
	assert.Equal(t, "Vienna is the capital and largest city of Austria.", article.Text)

	require.Len(t, gotRequests, 2)
	assert.Equal(t, "en.wikipedia.org", gotRequests[0].URL.Host)
	assert.Equal(t, desktopUserAgent, gotRequests[0].Header.Get("User-Agent"))
	assert.Equal(t, "m.wikipedia.org", gotRequests[1].URL.Host)
	assert.Equal(t, "/wiki/Vienna", gotRequests[1].URL.Path)
	assert.Equal(t, mobileUserAgent, gotRequests[1].Header.Get("User-Agent"))
}

func TestWikipediaScraper_Fetch_BlockedBothAttempts(t *testing.T) {
	statuses := []int{http.StatusForbidden, http.StatusTooManyRequests}
	var call int
	s := newFakeScraper(func(req *http.Request) (*http.Response, error) {
		resp := htmlResponse(statuses[call], "blocked")
		call++
		return resp, nil
	})

	article, err := s.Fetch(context.Background(), "https://en.wikipedia.org/wiki/Vienna")

	assert.Nil(t, article)
	require.Error(t, err)
	assert.True(t, domain.IsDomainErrorWithCode(err, domain.ErrFetchBlocked))
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, 2, call)
}

func TestWikipediaScraper_Fetch_ServerError(t *testing.T) {
	var call int
	s := newFakeScraper(func(req *http.Request) (*http.Response, error) {
		call++
		return htmlResponse(http.StatusInternalServerError, "boom"), nil
	})

	article, err := s.Fetch(context.Background(), "https://en.wikipedia.org/wiki/Vienna")

	assert.Nil(t, article)
	require.Error(t, err)
	assert.True(t, domain.IsDomainErrorWithCode(err, domain.ErrFetchFailed))
	assert.Equal(t, 1, call, "non-blocked status should not trigger the mobile fallback")
}

func TestWikipediaScraper_Fetch_MobileFallbackServerError(t *testing.T) {
	var call int
	s := newFakeScraper(func(req *http.Request) (*http.Response, error) {
		call++
		if call == 1 {
			return htmlResponse(http.StatusForbidden, "blocked"), nil
		}
		return htmlResponse(http.StatusInternalServerError, "boom"), nil
	})

	article, err := s.Fetch(context.Background(), "https://en.wikipedia.org/wiki/Vienna")

	assert.Nil(t, article)
	require.Error(t, err)
	assert.True(t, domain.IsDomainErrorWithCode(err, domain.ErrFetchFailed),
		"a non-blocked mobile failure is a plain fetch failure")
	assert.Equal(t, 2, call)
}

func TestWikipediaScraper_Fetch_NetworkError(t *testing.T) {
	s := newFakeScraper(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	article, err := s.Fetch(context.Background(), "https://en.wikipedia.org/wiki/Vienna")

	assert.Nil(t, article)
	require.Error(t, err)
	assert.True(t, domain.IsDomainErrorWithCode(err, domain.ErrFetchFailed))
}

func TestWikipediaScraper_Fetch_NonEnglishHostRetriesSameHost(t *testing.T) {
	var gotRequests []*http.Request
	s := newFakeScraper(func(req *http.Request) (*http.Response, error) {
		gotRequests = append(gotRequests, req)
		if len(gotRequests) == 1 {
			return htmlResponse(http.StatusForbidden, "blocked"), nil
		}
		return htmlResponse(http.StatusOK, mobileArticleHTML), nil
	})

	_, err := s.Fetch(context.Background(), "https://fr.wikipedia.org/wiki/Vienne")

	require.NoError(t, err)
	require.Len(t, gotRequests, 2)
	assert.Equal(t, "fr.wikipedia.org", gotRequests[1].URL.Host,
		"only the English host is rewritten for the mobile retry")
	assert.Equal(t, mobileUserAgent, gotRequests[1].Header.Get("User-Agent"))
}

func TestExtractArticle(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantTitle string
		wantText  string
	}{
		{
			name:      "desktop layout",
			html:      desktopArticleHTML,
			wantTitle: "Vienna",
			wantText:  "Vienna is the capital of Austria.\n\nIt lies on the Danube river.",
		},
		{
			name:      "mobile layout",
			html:      mobileArticleHTML,
			wantTitle: "Vienna",
			wantText:  "Vienna is the capital and largest city of Austria.",
		},
		{
			name:      "main element fallback",
			html:      `<html><body><h1 id="firstHeading">Essay</h1><main><p>Main content here.</p></main></body></html>`,
			wantTitle: "Essay",
			wantText:  "Main content here.",
		},
		{
			name:      "no content region",
			html:      `<html><body><h1 id="firstHeading">Stub</h1><p>stray paragraph</p></body></html>`,
			wantTitle: "Stub",
			wantText:  "",
		},
		{
			name:      "no heading at all",
			html:      `<html><body><div id="mw-content-text"><p>Text without a title.</p></div></body></html>`,
			wantTitle: "Untitled",
			wantText:  "Text without a title.",
		},
		{
			name:      "empty document",
			html:      "",
			wantTitle: "Untitled",
			wantText:  "",
		},
		{
			name:      "references and tables stripped",
			html:      `<html><body><h1 id="firstHeading">T</h1><div id="mw-content-text"><div class="mw-references-wrap"><p>refs</p></div><p>Kept.<sup class="reference">[2]</sup></p><table><tr><td><p>cell</p></td></tr></table></div></body></html>`,
			wantTitle: "T",
			wantText:  "Kept.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, text := extractArticle(tt.html)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

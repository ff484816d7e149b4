package crawler

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

const peopleSearchURL = "https://www.linkedin.com/search/results/people/"

// NavigationError is a transient fetch or page-load fault. The orchestrator
// retries it with backoff; exhausting retries aborts only the current query.
type NavigationError struct {
	Op  string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed (%s): %v", e.Op, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// SearchService drives the search-results pages over the authenticated
// browser session. It is the only component that issues navigation commands
// once the orchestrator takes ownership of the session.
type SearchService struct {
	Debug bool
}

// NewSearchService creates a SearchService.
func NewSearchService(debug bool) *SearchService {
	return &SearchService{Debug: debug}
}

// searchURL builds the people-search URL for a query. The location value is
// an opaque geo identifier passed through the geoUrn parameter.
func searchURL(q models.SearchQuery) string {
	params := url.Values{}
	params.Set("keywords", q.JobTitle)
	if q.Location != "" {
		params.Set("geoUrn", "["+q.Location+"]")
	}
	return peopleSearchURL + "?" + params.Encode()
}

// OpenQuery navigates to page 1 of the query's results and waits for the
// document to settle.
func (s *SearchService) OpenQuery(ctx context.Context, q models.SearchQuery) error {
	u := searchURL(q)
	if err := chromedp.Run(ctx,
		chromedp.Navigate(u),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
	); err != nil {
		return &NavigationError{Op: "open query", Err: err}
	}
	return nil
}

// Entries snapshots the outerHTML of every result entry on the current page,
// in page order. The selector chain is tried most specific first; an empty
// slice means the page holds no results.
func (s *SearchService) Entries(ctx context.Context) ([]string, error) {
	for _, sel := range entrySelectors {
		var fragments []string
		script := fmt.Sprintf(
			`Array.from(document.querySelectorAll(%q)).map(e => e.outerHTML)`, sel)
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, &fragments)); err != nil {
			return nil, &NavigationError{Op: "collect entries", Err: err}
		}
		if s.Debug {
			log.Printf("debug: selector %q matched %d entries", sel, len(fragments))
		}
		if len(fragments) > 0 {
			return fragments, nil
		}
	}
	return nil, nil
}

// NextPage advances to the next results page. It returns false without error
// when the pagination control is absent or disabled, the end-of-results
// marker for the query.
func (s *SearchService) NextPage(ctx context.Context) (bool, error) {
	var clickable bool
	probe := fmt.Sprintf(`(() => {
		const b = document.querySelector(%q);
		return b !== null && !b.disabled;
	})()`, nextButtonSelector)
	if err := chromedp.Run(ctx, chromedp.Evaluate(probe, &clickable)); err != nil {
		return false, &NavigationError{Op: "probe next button", Err: err}
	}
	if !clickable {
		return false, nil
	}

	if err := chromedp.Run(ctx,
		chromedp.ScrollIntoView(nextButtonSelector, chromedp.ByQuery),
		chromedp.Click(nextButtonSelector, chromedp.ByQuery),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Sleep(time.Second),
	); err != nil {
		return false, &NavigationError{Op: "advance page", Err: err}
	}
	return true, nil
}

// Blocked reports whether the session is sitting on a rate-limit or security
// interstitial instead of search results.
func (s *SearchService) Blocked(ctx context.Context) bool {
	var blocked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(blockedProbe, &blocked)); err != nil {
		return false
	}
	return blocked
}

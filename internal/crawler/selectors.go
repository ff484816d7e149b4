package crawler

// CSS selectors for the people search results page. LinkedIn rotates its
// obfuscated class names, so every lookup runs an ordered fallback chain and
// callers treat "nothing matched" as a normal outcome, not an error.
// Inspect https://www.linkedin.com/search/results/people/ in DevTools to
// refresh the leading entries.

// entrySelectors locate one person-result unit within the results page,
// most specific first.
var entrySelectors = []string{
	`li.iVQBdbUhhelimibSIqzFwVInEeWYnuzuXYt`,
	`.search-results-container li`,
	`.reusable-search__result-container`,
	`[data-chameleon-result-urn*="member"]`,
}

// Per-field fallback chains, primary selector first.
var (
	nameSelectors = []string{
		`a[data-test-app-aware-link] span[aria-hidden="true"]`,
		`a span[aria-hidden="true"]`,
		`.entity-result__title-text a`,
	}

	linkSelectors = []string{
		`a[data-test-app-aware-link]`,
		`a[href*="/in/"]`,
	}

	titleSelectors = []string{
		`.entity-result__primary-subtitle`,
		`div.t-14.t-black.t-normal`,
	}

	locationSelectors = []string{
		`.entity-result__secondary-subtitle`,
		`div.t-14.t-normal:not(.t-black)`,
	}

	aboutSelectors = []string{
		`.entity-result__summary`,
		`p.t-12.t-black--light`,
	}

	connectionsSelectors = []string{
		`.entity-result__simple-insight-text`,
		`.member-insights__count`,
	}
)

// Page-level selectors.
const (
	// nextButtonSelector is the pagination control; its absence or a
	// disabled state is the end-of-results marker.
	nextButtonSelector = `button[aria-label="Next"]`

	// blockedProbe detects rate-limit/security interstitials surfaced by
	// the session mid-run.
	blockedProbe = `(() => {
		const href = location.href || "";
		if (href.includes("/checkpoint/") || href.includes("/authwall")) return true;
		const t = document.title || "";
		return /security verification|let's do a quick/i.test(t);
	})()`
)

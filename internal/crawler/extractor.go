// Package crawler navigates the people search results and turns result
// entries into profile records.
package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

// ExtractionError marks a result entry whose container is structurally
// unrecognizable. The entry is skipped; the page and the run continue.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "extraction failed: " + e.Reason
}

// fieldStrategy resolves one field from an entry, reporting whether it found
// a usable value. Strategies compose left to right; the first hit wins.
type fieldStrategy func(entry *goquery.Selection) (string, bool)

// text returns the trimmed text of the first node matching sel.
func text(sel string) fieldStrategy {
	return func(entry *goquery.Selection) (string, bool) {
		v := strings.TrimSpace(entry.Find(sel).First().Text())
		return v, v != ""
	}
}

// href returns the first matching link target, with tracking parameters
// stripped.
func href(sel string) fieldStrategy {
	return func(entry *goquery.Selection) (string, bool) {
		v, ok := entry.Find(sel).First().Attr("href")
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(strings.SplitN(v, "?", 2)[0])
		return v, v != ""
	}
}

// companyFromTitle peels the employer off a "Role at Company" headline.
func companyFromTitle(entry *goquery.Selection) (string, bool) {
	for _, sel := range titleSelectors {
		t := strings.TrimSpace(entry.Find(sel).First().Text())
		if t == "" {
			continue
		}
		if _, company, ok := strings.Cut(t, " at "); ok {
			company = strings.TrimSpace(company)
			return company, company != ""
		}
	}
	return "", false
}

func chain(sels []string) []fieldStrategy {
	out := make([]fieldStrategy, 0, len(sels))
	for _, s := range sels {
		out = append(out, text(s))
	}
	return out
}

func hrefChain(sels []string) []fieldStrategy {
	out := make([]fieldStrategy, 0, len(sels))
	for _, s := range sels {
		out = append(out, href(s))
	}
	return out
}

func resolve(entry *goquery.Selection, strategies []fieldStrategy) string {
	for _, s := range strategies {
		if v, ok := s(entry); ok {
			return v
		}
	}
	return ""
}

// Extractor converts one result entry's markup into a ProfileRecord. It is a
// pure function of the entry fragment: no network, no session access, and
// identical input yields an identical record.
type Extractor struct {
	// Debug logs per-field resolution through the provided func.
	Debug func(format string, args ...any)
}

// NewExtractor creates an Extractor without debug output.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses entryHTML and resolves the seven record fields through
// their fallback chains. A missing field never fails the record; it comes
// back as an empty string. The only fatal case is a fragment with no
// recognizable entry structure, reported as *ExtractionError.
func (e *Extractor) Extract(entryHTML string) (models.ProfileRecord, error) {
	var rec models.ProfileRecord

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(entryHTML))
	if err != nil {
		return rec, &ExtractionError{Reason: fmt.Sprintf("unparseable entry markup: %v", err)}
	}

	entry := doc.Selection
	if entry.Find("a").Length() == 0 {
		return rec, &ExtractionError{Reason: "no entry container located in fragment"}
	}

	rec.Name = cleanName(resolve(entry, chain(nameSelectors)))
	rec.ProfileURL = resolve(entry, hrefChain(linkSelectors))
	rec.Title = resolve(entry, chain(titleSelectors))
	rec.Location = resolve(entry, chain(locationSelectors))
	rec.About = resolve(entry, chain(aboutSelectors))
	rec.Connections = resolve(entry, chain(connectionsSelectors))
	rec.Company = resolve(entry, append([]fieldStrategy{companyFromTitle}, chain(aboutSelectors)...))

	// Title and location chains can collapse onto the same node when the
	// page uses generic typography classes; keep the title.
	if rec.Location != "" && strings.EqualFold(rec.Location, rec.Title) {
		rec.Location = ""
	}

	if e.Debug != nil {
		e.Debug("extracted: name=%q title=%q company=%q location=%q url=%q",
			rec.Name, rec.Title, rec.Company, rec.Location, rec.ProfileURL)
	}

	return rec, nil
}

// cleanName drops the presence-status prefix LinkedIn prepends to the
// visible name span.
func cleanName(name string) string {
	for _, prefix := range []string{"Status is offline", "Status is online"} {
		name = strings.TrimSpace(strings.TrimPrefix(name, prefix))
	}
	return name
}

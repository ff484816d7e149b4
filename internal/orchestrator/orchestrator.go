// Package orchestrator runs each configured query to completion or page cap
// against the authenticated session. Field problems are absorbed by the
// extractor, entry problems at the page level and page problems at the query
// level; only output faults and cancellation escape Run.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/config"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/crawler"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/ratelimit"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/storage"
)

// Pager drives the search-results pages over the session. Implemented by
// crawler.SearchService; faked in tests.
type Pager interface {
	OpenQuery(ctx context.Context, q models.SearchQuery) error
	Entries(ctx context.Context) ([]string, error)
	NextPage(ctx context.Context) (bool, error)
	Blocked(ctx context.Context) bool
}

// Waiter paces interactive actions. Implemented by ratelimit.Limiter.
type Waiter interface {
	Wait(ctx context.Context) error
	WaitBetweenQueries(ctx context.Context) error
	Cooldown(ctx context.Context) error
	ScrollPage(ctx context.Context) error
}

// RecordSink receives every accepted record. Implemented by storage.CSVSink.
type RecordSink interface {
	Write(rec models.ProfileRecord) error
}

// History receives a best-effort copy of every persisted record for the
// local run-history store. Implementations must never block the crawl.
type History interface {
	Record(q models.SearchQuery, rec models.ProfileRecord)
}

var _ Pager = (*crawler.SearchService)(nil)
var _ Waiter = (*ratelimit.Limiter)(nil)
var _ RecordSink = (*storage.CSVSink)(nil)

// Orchestrator owns the session for the run's lifetime; no other component
// issues navigation commands while it runs.
type Orchestrator struct {
	cfg       config.Config
	pager     Pager
	extractor *crawler.Extractor
	limiter   Waiter
	sink      RecordSink
	history   History // optional

	// RetryBackoff is the first retry delay; it doubles per attempt.
	RetryBackoff time.Duration

	written int
}

// New creates an Orchestrator. history may be nil.
func New(cfg config.Config, pager Pager, extractor *crawler.Extractor, limiter Waiter, sink RecordSink, history History) *Orchestrator {
	return &Orchestrator{
		cfg:          cfg,
		pager:        pager,
		extractor:    extractor,
		limiter:      limiter,
		sink:         sink,
		history:      history,
		RetryBackoff: 2 * time.Second,
	}
}

// Written returns the number of records persisted so far.
func (o *Orchestrator) Written() int { return o.written }

// Run executes every configured query in order. A failed query is logged and
// the next one still runs; only a sink fault or cancellation ends the run.
func (o *Orchestrator) Run(ctx context.Context) error {
	queries := o.cfg.Queries()
	for i, q := range queries {
		log.Printf("query %d/%d: %q (location=%q)", i+1, len(queries), q.JobTitle, q.Location)

		if err := o.runQuery(ctx, q); err != nil {
			var sinkErr *storage.SinkError
			if errors.As(err, &sinkErr) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("query %q aborted: %v", q.JobTitle, err)
		}

		if i < len(queries)-1 {
			if err := o.limiter.WaitBetweenQueries(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// runQuery pages through one query, deduplicating by profile_url within the
// query only; the same person appearing under a different query is kept.
func (o *Orchestrator) runQuery(ctx context.Context, q models.SearchQuery) error {
	if o.cfg.MaxPages == 0 {
		log.Printf("query %q: max_pages is 0, skipping", q.JobTitle)
		return nil
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := o.withRetry(ctx, "open query", func() error {
		return o.pager.OpenQuery(ctx, q)
	}); err != nil {
		return err
	}

	seen := make(map[string]struct{})
	queryTotal := 0

	for page := 1; page <= o.cfg.MaxPages; page++ {
		if err := o.limiter.ScrollPage(ctx); err != nil {
			return err
		}

		if o.pager.Blocked(ctx) {
			log.Printf("query %q page %d: block signal detected, cooling down", q.JobTitle, page)
			if err := o.limiter.Cooldown(ctx); err != nil {
				return err
			}
			if o.pager.Blocked(ctx) {
				return fmt.Errorf("query %q: still blocked after cooldown", q.JobTitle)
			}
		}

		var entries []string
		if err := o.withRetry(ctx, "collect entries", func() error {
			var err error
			entries, err = o.pager.Entries(ctx)
			return err
		}); err != nil {
			return err
		}

		batch := o.extractPage(q, page, entries, seen)

		for _, rec := range batch {
			if err := o.sink.Write(rec); err != nil {
				return err
			}
			o.written++
			queryTotal++
			if o.history != nil {
				o.history.Record(q, rec)
			}
		}

		log.Printf("query %q page %d: %d entries, %d records kept (query total %d)",
			q.JobTitle, page, len(entries), len(batch), queryTotal)

		if len(entries) == 0 {
			log.Printf("query %q: empty result set, end of results", q.JobTitle)
			return nil
		}
		if page == o.cfg.MaxPages {
			break
		}

		if err := o.limiter.Wait(ctx); err != nil {
			return err
		}
		var hasNext bool
		if err := o.withRetry(ctx, "advance page", func() error {
			var err error
			hasNext, err = o.pager.NextPage(ctx)
			return err
		}); err != nil {
			return err
		}
		if !hasNext {
			log.Printf("query %q: no next-page control, end of results", q.JobTitle)
			return nil
		}
	}
	return nil
}

// extractPage converts the page's entry fragments into the batch of records
// to persist, preserving page order. Unrecognizable entries are skipped and
// counted; duplicates within the query are dropped.
func (o *Orchestrator) extractPage(q models.SearchQuery, page int, entries []string, seen map[string]struct{}) models.ResultBatch {
	var batch models.ResultBatch
	skipped := 0

	for _, entry := range entries {
		rec, err := o.extractor.Extract(entry)
		if err != nil {
			skipped++
			if o.cfg.DebugMode {
				log.Printf("query %q page %d: entry skipped: %v", q.JobTitle, page, err)
			}
			continue
		}

		if o.cfg.RelevanceFilter && !relevant(rec, q.JobTitle) {
			continue
		}

		if rec.ProfileURL != "" {
			if _, dup := seen[rec.ProfileURL]; dup {
				continue
			}
			seen[rec.ProfileURL] = struct{}{}
		}

		batch = append(batch, rec)
	}

	if skipped > 0 {
		log.Printf("query %q page %d: %d unrecognizable entries skipped", q.JobTitle, page, skipped)
	}
	return batch
}

// withRetry runs fn up to MaxRetries times with growing backoff. Exhausting
// the attempts surfaces the last error to the query level.
func (o *Orchestrator) withRetry(ctx context.Context, op string, fn func() error) error {
	backoff := o.RetryBackoff
	var err error
	for attempt := 1; attempt <= o.cfg.MaxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == o.cfg.MaxRetries {
			break
		}
		log.Printf("%s: attempt %d/%d failed, retrying in %s: %v", op, attempt, o.cfg.MaxRetries, backoff, err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return fmt.Errorf("%s: retries exhausted: %w", op, err)
}

// relevant reports whether any keyword of the query's job title appears in
// the extracted title.
func relevant(rec models.ProfileRecord, jobTitle string) bool {
	title := strings.ToLower(rec.Title)
	for _, kw := range strings.Fields(strings.ToLower(jobTitle)) {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

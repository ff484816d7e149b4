package main

import (
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/database"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

type historyEntry struct {
	query  models.SearchQuery
	record models.ProfileRecord
}

// historyWriter moves best-effort history inserts off the crawl path so
// database I/O never stretches the timing between browser actions. The CSV
// row is already flushed when an entry is queued.
type historyWriter struct {
	ch chan historyEntry
	g  errgroup.Group
}

func newHistoryWriter(store *database.Store, runID string) *historyWriter {
	w := &historyWriter{ch: make(chan historyEntry, 128)}
	w.g.Go(func() error {
		for e := range w.ch {
			if err := store.Profiles.Insert(runID, e.query.JobTitle, e.record); err != nil {
				log.Printf("history store insert failed: %v", err)
			}
		}
		return nil
	})
	return w
}

// Record queues one collected record. A full queue drops the entry rather
// than stalling the session.
func (w *historyWriter) Record(q models.SearchQuery, rec models.ProfileRecord) {
	select {
	case w.ch <- historyEntry{query: q, record: rec}:
	default:
		log.Printf("history store queue full, entry dropped")
	}
}

// Close drains the queue and waits for the writer to finish.
func (w *historyWriter) Close() {
	close(w.ch)
	_ = w.g.Wait()
}

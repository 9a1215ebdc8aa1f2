// Package pipeline runs one ingestion pass: poll every source, filter
// entries to the recency window, skip already-persisted items, extract
// structured fields for the rest, and append the composed rows to the
// ledger.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TobiSchelling/vidigest/internal/extract"
	"github.com/TobiSchelling/vidigest/internal/poll"
	"github.com/TobiSchelling/vidigest/internal/record"
	"github.com/TobiSchelling/vidigest/internal/window"
)

// Poller fetches the current entries for one source.
type Poller interface {
	Poll(ctx context.Context, src poll.Source) []poll.Entry
}

// Extractor derives structured fields for one entry, or nil on failure.
type Extractor interface {
	Extract(ctx context.Context, entry poll.Entry, src poll.Source) *extract.Result
}

// Sink is the append-only ledger the pipeline writes to.
type Sink interface {
	ListItemIDs() ([]string, error)
	Append(rec *record.Record) error
}

// Stats accumulates what one run actually did.
type Stats struct {
	SourcesScanned int
	EntriesSeen    int
	Fresh          int // recent and not yet persisted
	Persisted      int
}

// Pipeline is the single-threaded run orchestrator. Sources are visited in
// registry order, entries in feed order; nothing runs concurrently, which
// keeps the pacing delay an accurate proxy for rate-limit compliance.
type Pipeline struct {
	sources    []poll.Source
	poller     Poller
	extractor  Extractor
	sink       Sink
	windowDays int
	pacing     time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a pipeline over the given collaborators.
func New(sources []poll.Source, poller Poller, extractor Extractor, sink Sink, windowDays int, pacing time.Duration) *Pipeline {
	return &Pipeline{
		sources:    sources,
		poller:     poller,
		extractor:  extractor,
		sink:       sink,
		windowDays: windowDays,
		pacing:     pacing,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// Run executes one pass. Source and extraction failures are logged and
// skipped; a ledger append failure aborts the run immediately, returning the
// stats accumulated so far. Items whose extraction failed are not added to
// the dedup index, so the next run retries them.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	ids, err := p.sink.ListItemIDs()
	if err != nil {
		return stats, fmt.Errorf("bootstrapping dedup index: %w", err)
	}
	dedup := newIndex(ids)
	log.Printf("Loaded %d previously persisted items", dedup.Len())

	for _, src := range p.sources {
		entries := p.poller.Poll(ctx, src)
		stats.SourcesScanned++
		log.Printf("Scanned %s: %d entries", src.Name, len(entries))

		for _, entry := range entries {
			stats.EntriesSeen++

			recent, displayDate := window.Recent(entry.Published, p.now(), p.windowDays)
			if !recent {
				continue
			}
			if dedup.Contains(entry.ItemID) {
				continue
			}
			stats.Fresh++

			log.Printf("New item found, analyzing: %s", entry.Title)
			result := p.extractor.Extract(ctx, entry, src)
			rec := record.Compose(entry, result, src.Name, p.now(), displayDate)
			if rec == nil {
				continue
			}

			if err := p.sink.Append(rec); err != nil {
				return stats, fmt.Errorf("persisting %s: %w", entry.ItemID, err)
			}
			dedup.Add(entry.ItemID)
			stats.Persisted++
			log.Printf("Saved %s", entry.ItemID)

			p.sleep(p.pacing)
		}
	}

	log.Printf("Run complete: %d sources scanned, %d entries seen, %d fresh, %d persisted",
		stats.SourcesScanned, stats.EntriesSeen, stats.Fresh, stats.Persisted)
	return stats, nil
}

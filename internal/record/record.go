// Package record maps extraction results onto the persisted row schema.
package record

import (
	"strings"
	"time"

	"github.com/TobiSchelling/vidigest/internal/extract"
	"github.com/TobiSchelling/vidigest/internal/poll"
	"github.com/TobiSchelling/vidigest/internal/window"
)

// Record is one fixed-schema ledger row. Rows are append-only; once written
// they are never mutated.
type Record struct {
	CollectedAt   string
	PublishedAt   string
	ItemID        string
	Title         string
	SourceName    string
	MainTopic     string
	KeyArguments  string
	Evidence      string
	Implications  string
	ValidityCheck string
	Sentiment     string
	Summary       string
	Tags          string
	URL           string
}

// Compose maps an extraction result (plus fallbacks from the raw entry) onto
// the row schema. A nil result means the entry is skipped entirely, so it
// stays out of the dedup index and a later run can retry it.
//
// collectedAt is always the orchestrator's run time, never a value echoed by
// the model.
func Compose(entry poll.Entry, result *extract.Result, sourceName string, collectedAt time.Time, displayDate string) *Record {
	if result == nil {
		return nil
	}

	return &Record{
		CollectedAt:   window.Timestamp(collectedAt),
		PublishedAt:   fallback(result.PublishedAt, displayDate),
		ItemID:        fallback(result.ItemID, entry.ItemID),
		Title:         fallback(result.Title, entry.Title),
		SourceName:    fallback(result.ChannelName, sourceName),
		MainTopic:     result.MainTopic,
		KeyArguments:  bullets(result.KeyArguments),
		Evidence:      bullets(result.Evidence),
		Implications:  result.Implications,
		ValidityCheck: result.ValidityCheck,
		Sentiment:     result.Sentiment,
		Summary:       result.Summary,
		Tags:          result.Tags,
		URL:           fallback(result.URL, entry.URL),
	}
}

func fallback(v, alt string) string {
	if v != "" {
		return v
	}
	return alt
}

// bullets flattens a list into a "- "-prefixed, newline-joined block.
// Empty lists become empty text.
func bullets(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return "- " + strings.Join(items, "\n- ")
}

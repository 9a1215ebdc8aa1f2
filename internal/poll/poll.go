package poll

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/TobiSchelling/vidigest/internal/config"
)

const maxPerFeed = 20

// Source is one registered channel in scan order.
type Source struct {
	Name         string
	ChannelID    string
	FeedURL      string
	FetchContent bool
}

// URL returns the feed URL, built from the channel ID unless an explicit
// feed URL is set.
func (s Source) URL() string {
	if s.FeedURL != "" {
		return s.FeedURL
	}
	return fmt.Sprintf("https://www.youtube.com/feeds/videos.xml?channel_id=%s", s.ChannelID)
}

// Registry converts configured sources into the ordered scan list.
// Declaration order in the config is preserved.
func Registry(sources []config.Source) []Source {
	out := make([]Source, len(sources))
	for i, s := range sources {
		out[i] = Source{
			Name:         s.Name,
			ChannelID:    s.ChannelID,
			FeedURL:      s.FeedURL,
			FetchContent: s.FetchContent,
		}
	}
	return out
}

// Entry is one feed item from the current poll. Published is nil when the
// feed carried no parseable timestamp.
type Entry struct {
	ItemID    string
	URL       string
	Title     string
	Published *time.Time
}

// Poller fetches and parses channel feeds.
type Poller struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewPoller creates a new Poller.
func NewPoller() *Poller {
	return &Poller{
		parser:  gofeed.NewParser(),
		timeout: 30 * time.Second,
	}
}

// Poll fetches one source's current entries in feed order. A fetch or parse
// failure returns an empty slice; one broken source must not abort the rest
// of the run.
func (p *Poller) Poll(ctx context.Context, src Source) []Entry {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	feed, err := p.parser.ParseURLWithContext(src.URL(), ctx)
	if err != nil {
		log.Printf("Failed to parse feed for %s: %v", src.Name, err)
		return nil
	}

	return entriesFromFeed(feed)
}

func entriesFromFeed(feed *gofeed.Feed) []Entry {
	var entries []Entry
	for _, item := range feed.Items {
		if len(entries) >= maxPerFeed {
			break
		}
		entry := entryFromItem(item)
		if entry == nil {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries
}

func entryFromItem(item *gofeed.Item) *Entry {
	id := itemID(item)
	if id == "" {
		return nil
	}

	itemURL := item.Link
	if itemURL == "" {
		itemURL = item.GUID
	}

	var published *time.Time
	if item.PublishedParsed != nil {
		published = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed
	}

	return &Entry{
		ItemID:    id,
		URL:       itemURL,
		Title:     strings.TrimSpace(item.Title),
		Published: published,
	}
}

// itemID returns a stable identifier for a feed item. YouTube feeds carry
// the video ID in the yt:videoId extension; plain feeds fall back to GUID,
// then link. Titles are never usable as keys.
func itemID(item *gofeed.Item) string {
	if vids := item.Extensions["yt"]["videoId"]; len(vids) > 0 && vids[0].Value != "" {
		return vids[0].Value
	}
	if item.GUID != "" {
		return strings.TrimPrefix(item.GUID, "yt:video:")
	}
	return item.Link
}

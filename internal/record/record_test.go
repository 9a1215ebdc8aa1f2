package record

import (
	"testing"
	"time"

	"github.com/TobiSchelling/vidigest/internal/extract"
	"github.com/TobiSchelling/vidigest/internal/poll"
	"github.com/TobiSchelling/vidigest/internal/window"
)

var runTime = time.Date(2026, 8, 28, 14, 30, 0, 0, window.Zone)

func TestComposeSkipsAbsentResult(t *testing.T) {
	entry := poll.Entry{ItemID: "vid1", URL: "u", Title: "t"}
	if rec := Compose(entry, nil, "channel", runTime, "2026-08-28"); rec != nil {
		t.Error("absent extraction result must compose to a skip, not a row")
	}
}

func TestComposeFallbacks(t *testing.T) {
	entry := poll.Entry{
		ItemID: "vid1",
		URL:    "https://www.youtube.com/watch?v=vid1",
		Title:  "Original title",
	}
	// Model omitted channel_name, title, url, video_id and published_at.
	result := &extract.Result{
		MainTopic: "inflation outlook",
		Sentiment: "neutral",
	}

	rec := Compose(entry, result, "경제 채널", runTime, "2026-08-27")
	if rec == nil {
		t.Fatal("expected a record")
	}

	if rec.SourceName != "경제 채널" {
		t.Errorf("source_name should fall back to the registered name, got %q", rec.SourceName)
	}
	if rec.ItemID != "vid1" {
		t.Errorf("item_id should fall back to the entry ID, got %q", rec.ItemID)
	}
	if rec.Title != "Original title" {
		t.Errorf("title should fall back to the entry title, got %q", rec.Title)
	}
	if rec.URL != entry.URL {
		t.Errorf("url should fall back to the entry URL, got %q", rec.URL)
	}
	if rec.PublishedAt != "2026-08-27" {
		t.Errorf("published_at should fall back to the normalized date, got %q", rec.PublishedAt)
	}
	if rec.CollectedAt != "2026-08-28 14:30:00" {
		t.Errorf("unexpected collected_at: %q", rec.CollectedAt)
	}
	// Missing analytical fields default to empty text.
	if rec.Implications != "" || rec.KeyArguments != "" {
		t.Error("omitted fields should be empty strings")
	}
}

func TestComposePrefersResultValues(t *testing.T) {
	entry := poll.Entry{ItemID: "vid1", URL: "feed-url", Title: "feed title"}
	result := &extract.Result{
		ItemID:      "vid1",
		URL:         "https://youtu.be/vid1",
		Title:       "Model title",
		ChannelName: "Model channel",
		PublishedAt: "2026-08-26",
	}

	rec := Compose(entry, result, "registered", runTime, "2026-08-27")
	if rec.Title != "Model title" {
		t.Errorf("result title should win, got %q", rec.Title)
	}
	if rec.SourceName != "Model channel" {
		t.Errorf("result channel should win, got %q", rec.SourceName)
	}
	if rec.URL != "https://youtu.be/vid1" {
		t.Errorf("result URL should win, got %q", rec.URL)
	}
	if rec.PublishedAt != "2026-08-26" {
		t.Errorf("result published_at should win, got %q", rec.PublishedAt)
	}
}

func TestBullets(t *testing.T) {
	got := bullets([]string{"rates will fall", "credit is tightening"})
	want := "- rates will fall\n- credit is tightening"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if bullets(nil) != "" {
		t.Error("empty list should flatten to empty text")
	}
}

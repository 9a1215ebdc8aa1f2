package store

import (
	"path/filepath"
	"testing"

	"github.com/TobiSchelling/vidigest/internal/record"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecord(itemID string) *record.Record {
	return &record.Record{
		CollectedAt: "2026-08-28 14:30:00",
		PublishedAt: "2026-08-27",
		ItemID:      itemID,
		Title:       "Title for " + itemID,
		SourceName:  "Test Channel",
		MainTopic:   "rates",
		Summary:     "A summary about interest rates.",
		Tags:        "rates, bonds",
		URL:         "https://www.youtube.com/watch?v=" + itemID,
	}
}

func TestAppendAndListItemIDs(t *testing.T) {
	db := openTestDB(t)

	if err := db.Append(testRecord("vid1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.Append(testRecord("vid2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := db.ListItemIDs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 IDs, got %d", len(ids))
	}

	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen["vid1"] || !seen["vid2"] {
		t.Errorf("expected vid1 and vid2, got %v", ids)
	}
}

func TestAppendDuplicateFails(t *testing.T) {
	db := openTestDB(t)

	if err := db.Append(testRecord("vid1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.Append(testRecord("vid1")); err == nil {
		t.Error("expected UNIQUE violation for duplicate item_id")
	}

	n, err := db.Count()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row after duplicate rejection, got %d", n)
	}
}

func TestRecentRecordsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	db.Append(testRecord("vid1"))
	db.Append(testRecord("vid2"))
	db.Append(testRecord("vid3"))

	records, err := db.RecentRecords(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ItemID != "vid3" {
		t.Errorf("expected newest row first, got %q", records[0].ItemID)
	}
}

func TestSearch(t *testing.T) {
	db := openTestDB(t)

	rec := testRecord("vid1")
	rec.MainTopic = "semiconductor exports"
	db.Append(rec)

	other := testRecord("vid2")
	other.MainTopic = "housing market"
	other.Summary = "Housing prices in Seoul."
	other.Tags = "housing"
	db.Append(other)

	matches, err := db.Search([]string{"semiconductor"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].ItemID != "vid1" {
		t.Errorf("expected vid1, got %q", matches[0].ItemID)
	}

	none, err := db.Search([]string{"crypto"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %d", len(none))
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	rec := testRecord("vid1")
	rec.KeyArguments = "- cuts are coming\n- bonds will rally"
	rec.Evidence = "- CPI at 2.1%"
	rec.ValidityCheck = "arguments internally consistent"
	rec.Sentiment = "positive"
	rec.Implications = "duration exposure attractive"
	if err := db.Append(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := db.RecentRecords(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := records[0]
	if got != *rec {
		t.Errorf("row did not round-trip:\n got %+v\nwant %+v", got, *rec)
	}
}

package window

import (
	"testing"
	"time"
)

func TestRecentInsideWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, Zone)
	pub := now.AddDate(0, 0, -1)

	recent, date := Recent(&pub, now, 3)
	if !recent {
		t.Error("entry published yesterday should be recent")
	}
	if date != "2026-08-27" {
		t.Errorf("expected display date 2026-08-27, got %q", date)
	}
}

func TestRecentBoundary(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, Zone)

	// Exactly window_days old is still inside the window.
	onBoundary := now.AddDate(0, 0, -3)
	if recent, _ := Recent(&onBoundary, now, 3); !recent {
		t.Error("entry exactly 3 days old should be recent with window=3")
	}

	pastBoundary := now.AddDate(0, 0, -4)
	if recent, _ := Recent(&pastBoundary, now, 3); recent {
		t.Error("entry 4 days old should not be recent with window=3")
	}
}

func TestRecentFailOpenOnMissingDate(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, Zone)

	recent, date := Recent(nil, now, 0)
	if !recent {
		t.Error("entry without a publish time must be kept regardless of window")
	}
	if date != "2026-08-28" {
		t.Errorf("expected display date to default to now, got %q", date)
	}
}

func TestRecentNormalizesZones(t *testing.T) {
	// Publish time reported in UTC, run clock in KST: same instant, one
	// window decision.
	now := time.Date(2026, 8, 28, 0, 30, 0, 0, Zone)
	pub := time.Date(2026, 8, 25, 1, 0, 0, 0, time.UTC) // 10:00 KST on the 25th

	recent, date := Recent(&pub, now, 3)
	if !recent {
		t.Error("entry just under 3 days old should be recent")
	}
	if date != "2026-08-25" {
		t.Errorf("expected display date in KST, got %q", date)
	}
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2026, 8, 28, 3, 5, 9, 0, time.UTC)
	if got := Timestamp(ts); got != "2026-08-28 12:05:09" {
		t.Errorf("expected KST-normalized timestamp, got %q", got)
	}
}

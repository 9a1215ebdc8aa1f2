// Package window decides whether feed entries fall inside the processing
// window. All date arithmetic is normalized to one fixed zone so the run's
// wall clock and the feeds' reported publish times cannot drift apart.
package window

import "time"

// Zone is the fixed display time zone (KST, UTC+9).
var Zone = time.FixedZone("KST", 9*60*60)

// Recent reports whether a publish time falls inside the window, along with
// the normalized display date (YYYY-MM-DD).
//
// Entries without a parseable publish time are kept rather than dropped,
// dated "now". That trades reprocessing risk for never losing undated
// content; staleness for such entries is bounded only by the dedup index.
func Recent(published *time.Time, now time.Time, windowDays int) (bool, string) {
	now = now.In(Zone)
	if published == nil {
		return true, now.Format("2006-01-02")
	}

	pub := published.In(Zone)
	ageDays := int(now.Sub(pub).Hours() / 24)
	return ageDays <= windowDays, pub.Format("2006-01-02")
}

// Timestamp formats a run time for the collected_at column.
func Timestamp(t time.Time) string {
	return t.In(Zone).Format("2006-01-02 15:04:05")
}

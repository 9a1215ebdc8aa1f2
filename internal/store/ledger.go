package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/TobiSchelling/vidigest/internal/record"
)

// ledgerColumns is the persisted column order. It is fixed so historical and
// new rows stay aligned; never reorder it.
const ledgerColumns = `collected_at, published_at, item_id, title, source_name, main_topic,
	key_arguments, evidence, implications, validity_check, sentiment, summary, tags, url`

// Append writes one row to the ledger. All-or-nothing per row: any error
// here means the row was not persisted.
func (db *DB) Append(rec *record.Record) error {
	_, err := db.conn.Exec(
		`INSERT INTO ledger (`+ledgerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.CollectedAt, rec.PublishedAt, rec.ItemID, rec.Title, rec.SourceName,
		rec.MainTopic, rec.KeyArguments, rec.Evidence, rec.Implications,
		rec.ValidityCheck, rec.Sentiment, rec.Summary, rec.Tags, rec.URL,
	)
	if err != nil {
		return fmt.Errorf("appending %s: %w", rec.ItemID, err)
	}
	return nil
}

// ListItemIDs returns every persisted item ID, used to bootstrap the dedup
// index at the start of a run.
func (db *DB) ListItemIDs() ([]string, error) {
	rows, err := db.conn.Query("SELECT item_id FROM ledger")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the total number of persisted rows.
func (db *DB) Count() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM ledger").Scan(&n)
	return n, err
}

// RecentRecords returns the most recently appended rows, newest first.
func (db *DB) RecentRecords(limit int) ([]record.Record, error) {
	rows, err := db.conn.Query(
		`SELECT `+ledgerColumns+` FROM ledger ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Search returns rows where any of the keywords appears in the searchable
// text columns. Ranking is left to the caller.
func (db *DB) Search(keywords []string) ([]record.Record, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	searchable := []string{"title", "main_topic", "key_arguments", "implications", "summary", "tags"}
	var clauses []string
	var args []any
	for _, kw := range keywords {
		pattern := "%" + kw + "%"
		for _, col := range searchable {
			clauses = append(clauses, col+" LIKE ?")
			args = append(args, pattern)
		}
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledger WHERE ` +
		strings.Join(clauses, " OR ") + ` ORDER BY id DESC`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]record.Record, error) {
	var records []record.Record
	for rows.Next() {
		var r record.Record
		if err := rows.Scan(&r.CollectedAt, &r.PublishedAt, &r.ItemID, &r.Title,
			&r.SourceName, &r.MainTopic, &r.KeyArguments, &r.Evidence, &r.Implications,
			&r.ValidityCheck, &r.Sentiment, &r.Summary, &r.Tags, &r.URL); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

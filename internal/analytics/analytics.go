// Package analytics records site usage events (page views, item views,
// search queries) in a local SQLite database and answers simple aggregate
// questions about them. It sits entirely outside the content pipeline.
package analytics

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/foliolab/folio-server/internal/logger"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Event types.
const (
	eventPageView = "page_view"
	eventItemView = "item_view"
	eventSearch   = "search"
)

// Recorder is the event-recording surface the HTTP layer depends on.
// A disabled deployment gets a Noop.
type Recorder interface {
	PageView(ctx context.Context, path string)
	ItemView(ctx context.Context, itemID string)
	Search(ctx context.Context, query string, resultCount int)
}

// ItemCount is an aggregated view count for one item.
type ItemCount struct {
	ItemID string `json:"item_id"`
	Views  int    `json:"views"`
}

// QueryCount is an aggregated count for one search query.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Store provides SQLite-backed analytics persistence.
type Store struct {
	db  *sql.DB
	log *logger.Logger

	now func() time.Time
}

// Open creates the analytics store at the given path, configuring WAL mode
// and running schema migration.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, log: log, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PageView records a page view. Recording failures are logged, never
// surfaced; analytics must not affect request handling.
func (s *Store) PageView(ctx context.Context, path string) {
	s.insert(ctx, eventPageView, nullString(path), sql.NullString{}, sql.NullString{}, sql.NullInt64{})
}

// ItemView records a detail-page view for an item.
func (s *Store) ItemView(ctx context.Context, itemID string) {
	s.insert(ctx, eventItemView, sql.NullString{}, nullString(itemID), sql.NullString{}, sql.NullInt64{})
}

// Search records a search query and how many results it returned.
func (s *Store) Search(ctx context.Context, query string, resultCount int) {
	if query == "" {
		return
	}
	s.insert(ctx, eventSearch, sql.NullString{}, sql.NullString{}, nullString(query),
		sql.NullInt64{Int64: int64(resultCount), Valid: true})
}

func (s *Store) insert(ctx context.Context, eventType string, path, itemID, query sql.NullString, resultCount sql.NullInt64) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, type, path, item_id, query, result_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), eventType, path, itemID, query, resultCount, formatTime(s.now()))
	if err != nil {
		s.log.Warn("Failed to record analytics event", "type", eventType, "error", err)
	}
}

// TopItems returns the most viewed items, views descending.
func (s *Store) TopItems(ctx context.Context, limit int) ([]ItemCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, COUNT(*) AS views
		FROM events
		WHERE type = ? AND item_id IS NOT NULL
		GROUP BY item_id
		ORDER BY views DESC, item_id ASC
		LIMIT ?`, eventItemView, limit)
	if err != nil {
		return nil, fmt.Errorf("query top items: %w", err)
	}
	defer rows.Close()

	var counts []ItemCount
	for rows.Next() {
		var c ItemCount
		if err := rows.Scan(&c.ItemID, &c.Views); err != nil {
			return nil, fmt.Errorf("scan top items: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TopQueries returns the most frequent search queries, count descending.
func (s *Store) TopQueries(ctx context.Context, limit int) ([]QueryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, COUNT(*) AS n
		FROM events
		WHERE type = ? AND query IS NOT NULL
		GROUP BY query
		ORDER BY n DESC, query ASC
		LIMIT ?`, eventSearch, limit)
	if err != nil {
		return nil, fmt.Errorf("query top queries: %w", err)
	}
	defer rows.Close()

	var counts []QueryCount
	for rows.Next() {
		var c QueryCount
		if err := rows.Scan(&c.Query, &c.Count); err != nil {
			return nil, fmt.Errorf("scan top queries: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// PageViews returns the total page-view count since the given time.
func (s *Store) PageViews(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events WHERE type = ? AND created_at >= ?`,
		eventPageView, formatTime(since)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count page views: %w", err)
	}
	return n, nil
}

// Noop is the Recorder used when analytics is disabled.
type Noop struct{}

func (Noop) PageView(context.Context, string)    {}
func (Noop) ItemView(context.Context, string)    {}
func (Noop) Search(context.Context, string, int) {}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

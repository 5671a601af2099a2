package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/sitecounts/pkg/core"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements core.ContentStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite content store instance.
// A nil logger discards output.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// NewSQLiteStoreWithDB wraps an existing connection. The schema is assumed
// to be in place.
func NewSQLiteStoreWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	s := NewSQLiteStore(logger)
	s.db = db
	return s
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	var dsn string
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	} else {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened content store", "path", path)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema initializes the database schema.
func (s *SQLiteStore) InitSchema() error {
	if err := s.Migrate(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// --- Content type operations ---

// ListContentTypes returns content types in registration order.
func (s *SQLiteStore) ListContentTypes(ctx context.Context, filter core.ContentTypeFilter) ([]core.ContentType, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT name, singular_label, plural_label, public FROM content_types`
	if filter.PublicOnly {
		query += ` WHERE public = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list content types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var types []core.ContentType
	for rows.Next() {
		var ct core.ContentType
		if err := rows.Scan(&ct.Name, &ct.Labels.Singular, &ct.Labels.Plural, &ct.Public); err != nil {
			return nil, fmt.Errorf("failed to scan content type: %w", err)
		}
		types = append(types, ct)
	}
	return types, rows.Err()
}

// UpsertContentType registers a content type or updates its labels.
func (s *SQLiteStore) UpsertContentType(ctx context.Context, ct core.ContentType) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if ct.Name == "" {
		return fmt.Errorf("content type name is required")
	}
	return upsertContentType(ctx, s.db, ct)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertContentType(ctx context.Context, db execer, ct core.ContentType) error {
	singular, plural := ct.Labels.Singular, ct.Labels.Plural
	if singular == "" {
		singular = ct.Name
	}
	if plural == "" {
		plural = singular
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO content_types (name, singular_label, plural_label, public)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			singular_label = excluded.singular_label,
			plural_label = excluded.plural_label,
			public = excluded.public
	`, ct.Name, singular, plural, ct.Public)
	if err != nil {
		return fmt.Errorf("failed to upsert content type %s: %w", ct.Name, err)
	}
	return nil
}

// --- Entry operations ---

// CountEntries returns the number of entries per status for a content type.
func (s *SQLiteStore) CountEntries(ctx context.Context, contentType string) (core.StatusCounts, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM entries WHERE type = ? GROUP BY status`,
		contentType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries for %s: %w", contentType, err)
	}
	defer func() { _ = rows.Close() }()

	counts := core.StatusCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan entry count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// QueryEntries returns entries matching q, newest first.
func (s *SQLiteStore) QueryEntries(ctx context.Context, q core.EntryQuery) ([]core.Entry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query, args := buildEntryQuery(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []core.Entry
	for rows.Next() {
		var e core.Entry
		var publishedAt int64
		if err := rows.Scan(&e.ID, &e.Title, &e.Type, &e.Status, &publishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.PublishedAt = time.Unix(publishedAt, 0).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	if err := s.loadTerms(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// buildEntryQuery renders an EntryQuery into SQL and its arguments.
func buildEntryQuery(q core.EntryQuery) (string, []any) {
	var where []string
	var args []any

	if len(q.Types) > 0 {
		where = append(where, "e.type IN ("+placeholders(len(q.Types))+")")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}

	if isAnyStatus(q.Status) {
		where = append(where, "e.status NOT IN ("+placeholders(len(core.ExcludedFromAny))+")")
		for _, st := range core.ExcludedFromAny {
			args = append(args, st)
		}
	} else {
		where = append(where, "e.status IN ("+placeholders(len(q.Status))+")")
		for _, st := range q.Status {
			args = append(args, st)
		}
	}

	termFilter := `EXISTS (
		SELECT 1 FROM entry_terms et JOIN terms t ON t.id = et.term_id
		WHERE et.entry_id = e.id AND t.taxonomy = ? AND t.slug = ?)`
	if q.Tag != "" {
		where = append(where, termFilter)
		args = append(args, TaxonomyTag, q.Tag)
	}
	if q.Category != "" {
		where = append(where, termFilter)
		args = append(args, TaxonomyCategory, q.Category)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT e.id, e.title, e.type, e.status, e.published_at FROM entries e`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY e.published_at DESC, e.id DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}
	return sb.String(), args
}

func isAnyStatus(statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, st := range statuses {
		if st == core.StatusAny {
			return true
		}
	}
	return false
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// loadTerms fills Tags and Categories for the given entries.
func (s *SQLiteStore) loadTerms(ctx context.Context, entries []core.Entry) error {
	index := make(map[int64]int, len(entries))
	args := make([]any, 0, len(entries))
	for i, e := range entries {
		index[e.ID] = i
		args = append(args, e.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT et.entry_id, t.taxonomy, t.slug
		FROM entry_terms et JOIN terms t ON t.id = et.term_id
		WHERE et.entry_id IN (`+placeholders(len(args))+`)
		ORDER BY t.slug`, args...)
	if err != nil {
		return fmt.Errorf("failed to load entry terms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var entryID int64
		var taxonomy, slug string
		if err := rows.Scan(&entryID, &taxonomy, &slug); err != nil {
			return fmt.Errorf("failed to scan entry term: %w", err)
		}
		i, ok := index[entryID]
		if !ok {
			continue
		}
		switch taxonomy {
		case TaxonomyTag:
			entries[i].Tags = append(entries[i].Tags, slug)
		case TaxonomyCategory:
			entries[i].Categories = append(entries[i].Categories, slug)
		}
	}
	return rows.Err()
}

// CreateEntry inserts an entry with its terms. A zero ID is assigned by the
// database and returned.
func (s *SQLiteStore) CreateEntry(ctx context.Context, e core.Entry) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := insertEntry(ctx, tx, e)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit entry: %w", err)
	}
	return id, nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, e core.Entry) (int64, error) {
	if e.Type == "" {
		return 0, fmt.Errorf("entry type is required")
	}
	status := e.Status
	if status == "" {
		status = core.StatusDraft
	}

	var id sql.NullInt64
	if e.ID != 0 {
		id = sql.NullInt64{Int64: e.ID, Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO entries (id, title, type, status, published_at) VALUES (?, ?, ?, ?, ?)`,
		id, e.Title, e.Type, status, e.PublishedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry %q: %w", e.Title, err)
	}
	entryID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read entry id: %w", err)
	}

	for _, tag := range e.Tags {
		if err := attachTerm(ctx, tx, entryID, TaxonomyTag, tag); err != nil {
			return 0, err
		}
	}
	for _, cat := range e.Categories {
		if err := attachTerm(ctx, tx, entryID, TaxonomyCategory, cat); err != nil {
			return 0, err
		}
	}
	return entryID, nil
}

func attachTerm(ctx context.Context, tx *sql.Tx, entryID int64, taxonomy, slug string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO terms (taxonomy, slug) VALUES (?, ?) ON CONFLICT(taxonomy, slug) DO NOTHING`,
		taxonomy, slug,
	); err != nil {
		return fmt.Errorf("failed to insert term %s/%s: %w", taxonomy, slug, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO entry_terms (entry_id, term_id)
		SELECT ?, id FROM terms WHERE taxonomy = ? AND slug = ?`,
		entryID, taxonomy, slug,
	); err != nil {
		return fmt.Errorf("failed to attach term %s/%s: %w", taxonomy, slug, err)
	}
	return nil
}

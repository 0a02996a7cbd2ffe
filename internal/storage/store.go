package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/runnerr0/trailmark/internal/frecency"
)

// Registered database/sql driver names.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// History defines the operations the presentation layer uses.
type History interface {
	RecordVisit(ctx context.Context, url, title string)
	List(ctx context.Context, q ListQuery) []HistoryEntry
	Suggestions(ctx context.Context, partial string, limit int) []HistoryEntry
	Count(ctx context.Context) int64
	Get(ctx context.Context, url string) (*HistoryEntry, error)
	DeleteEntry(ctx context.Context, url string) error
	DeleteEntries(ctx context.Context, urls []string) error
	Clear(ctx context.Context, r ClearRange) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
	PlanMaintenance(ctx context.Context) (*MaintenanceReport, error)
	Maintain(ctx context.Context) (*MaintenanceReport, error)
	Close() error
}

// Options configures a SQLiteStore.
type Options struct {
	Driver      string        // DriverCGO when empty
	BusyTimeout time.Duration // 5s when zero
	Caps        Caps
	Logger      *slog.Logger
	Now         func() time.Time

	// DisableStartupMaintenance skips the cap check Open launches.
	DisableStartupMaintenance bool
}

func (o Options) withDefaults() Options {
	if o.Driver == "" {
		o.Driver = DriverCGO
	}
	if o.BusyTimeout == 0 {
		o.BusyTimeout = 5 * time.Second
	}
	if o.Caps.CleanupPercent == 0 {
		o.Caps.CleanupPercent = DefaultCleanupPercent
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// SQLiteStore implements History backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	ownsDB bool
	caps   Caps
	log    *slog.Logger
	now    func() time.Time

	// Prepared statements
	getVisit    *sql.Stmt
	insertEntry *sql.Stmt
	updateEntry *sql.Stmt
	getEntry    *sql.Stmt
	deleteEntry *sql.Stmt

	mu     sync.Mutex
	closed bool
	tasks  sync.WaitGroup
}

// Open opens (creating if needed) the history database at path, applies
// pragmas and migrations, and launches one background cap check. Use
// MemoryPath for an in-memory store.
func Open(path string, opts Options) (*SQLiteStore, error) {
	opts = opts.withDefaults()

	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrStorageUnavailable)
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("%w: create database directory: %w", ErrStorageUnavailable, err)
		}
	}

	db, err := sql.Open(opts.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", ErrStorageUnavailable, err)
	}

	// One connection: SQLite has a single writer, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connect: %w", ErrStorageUnavailable, err)
	}

	if err := applyPragmas(db, opts.BusyTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := NewMigrationRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: run migrations: %w", ErrStorageUnavailable, err)
	}

	s, err := NewSQLiteStore(db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.path = path
	s.ownsDB = true

	if !opts.DisableStartupMaintenance {
		s.goBackground("startup maintenance", s.startupMaintenance)
	}

	return s, nil
}

func applyPragmas(db *sql.DB, busyTimeout time.Duration) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("apply %q: %w", p, err)
		}
	}
	return nil
}

// NewSQLiteStore creates a SQLiteStore from an already-opened and migrated
// database. The caller keeps ownership of db; no background maintenance is
// started.
func NewSQLiteStore(db *sql.DB, opts Options) (*SQLiteStore, error) {
	opts = opts.withDefaults()

	s := &SQLiteStore{
		db:   db,
		caps: opts.Caps,
		log:  opts.Logger.With("component", "history"),
		now:  opts.Now,
	}

	if err := s.prepareStatements(); err != nil {
		s.closeStatements()
		return nil, fmt.Errorf("%w: prepare statements: %w", ErrStorageUnavailable, err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getVisit, err = s.db.Prepare(`
		SELECT visit_count, first_visit, last_visit FROM history WHERE url = ?
	`)
	if err != nil {
		return err
	}

	s.insertEntry, err = s.db.Prepare(`
		INSERT INTO history (url, title, visit_count, first_visit, last_visit, frecency)
		VALUES (?, ?, 1, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.updateEntry, err = s.db.Prepare(`
		UPDATE history
		SET visit_count = ?, last_visit = ?, title = COALESCE(?, title), frecency = ?
		WHERE url = ?
	`)
	if err != nil {
		return err
	}

	s.getEntry, err = s.db.Prepare(`
		SELECT ` + entryColumns + ` FROM history WHERE url = ?
	`)
	if err != nil {
		return err
	}

	s.deleteEntry, err = s.db.Prepare(`DELETE FROM history WHERE url = ?`)
	if err != nil {
		return err
	}

	return nil
}

const entryColumns = "id, url, title, visit_count, first_visit, last_visit, frecency"

// RecordVisit counts one visit to url. A non-empty title replaces the stored
// one. Failures are logged and never reach the caller: history is
// best-effort and must not disturb navigation. Scheme filtering is the
// caller's job.
func (s *SQLiteStore) RecordVisit(ctx context.Context, url, title string) {
	if url == "" {
		s.log.Debug("ignoring visit with empty url")
		return
	}
	if err := s.recordVisit(ctx, url, title); err != nil {
		s.log.Warn("record visit failed", "url", url, "error", err)
	}
}

func (s *SQLiteStore) recordVisit(ctx context.Context, url, title string) error {
	now := s.now()
	nowSec := toEpoch(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var visitCount int
	var firstSec, lastSec float64
	err = tx.StmtContext(ctx, s.getVisit).QueryRowContext(ctx, url).Scan(&visitCount, &firstSec, &lastSec)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		score := frecency.Score(1, now, now, now)
		_, err = tx.StmtContext(ctx, s.insertEntry).ExecContext(ctx,
			url, nullableTitle(title), nowSec, nowSec, score,
		)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	case err != nil:
		return fmt.Errorf("look up entry: %w", err)
	default:
		visitCount++
		// last_visit never moves backwards, even if the wall clock does.
		if nowSec > lastSec {
			lastSec = nowSec
		}
		score := frecency.Score(visitCount, fromEpoch(lastSec), fromEpoch(firstSec), now)
		_, err = tx.StmtContext(ctx, s.updateEntry).ExecContext(ctx,
			visitCount, lastSec, nullableTitle(title), score, url,
		)
		if err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
	}

	return tx.Commit()
}

func nullableTitle(title string) sql.NullString {
	return sql.NullString{String: title, Valid: title != ""}
}

// Get retrieves a single entry by URL.
func (s *SQLiteStore) Get(ctx context.Context, url string) (*HistoryEntry, error) {
	e, err := scanEntry(s.getEntry.QueryRowContext(ctx, url))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return nil, fmt.Errorf("%w: get entry: %w", ErrQuery, err)
	}
	return e, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*HistoryEntry, error) {
	var e HistoryEntry
	var title sql.NullString
	var firstSec, lastSec float64
	if err := row.Scan(&e.ID, &e.URL, &title, &e.VisitCount, &firstSec, &lastSec, &e.Frecency); err != nil {
		return nil, err
	}
	if title.Valid {
		e.Title = title.String
	}
	e.FirstVisit = fromEpoch(firstSec)
	e.LastVisit = fromEpoch(lastSec)
	return &e, nil
}

// DeleteEntry removes the entry for url. Deleting a URL that is not in
// history succeeds.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, url string) error {
	if _, err := s.deleteEntry.ExecContext(ctx, url); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// DeleteEntries removes every listed URL in one transaction. Unknown URLs
// are skipped.
func (s *SQLiteStore) DeleteEntries(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := tx.StmtContext(ctx, s.deleteEntry)
	for _, u := range urls {
		if _, err := stmt.ExecContext(ctx, u); err != nil {
			return fmt.Errorf("delete entry %s: %w", u, err)
		}
	}

	return tx.Commit()
}

// Clear bulk-deletes entries by age, then schedules a background reclaim.
// It returns the number of entries removed.
func (s *SQLiteStore) Clear(ctx context.Context, r ClearRange) (int64, error) {
	now := s.now()

	var res sql.Result
	var err error
	switch r {
	case ClearHour:
		res, err = s.db.ExecContext(ctx, "DELETE FROM history WHERE last_visit >= ?", toEpoch(now.Add(-time.Hour)))
	case ClearToday:
		res, err = s.db.ExecContext(ctx, "DELETE FROM history WHERE last_visit >= ?", utcDayStart(now))
	case ClearAll:
		res, err = s.db.ExecContext(ctx, "DELETE FROM history")
	default:
		return 0, fmt.Errorf("%w: clear range %q", ErrInvalidRange, r)
	}
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", r, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	s.log.Info("history cleared", "range", string(r), "removed", n)
	s.goBackground("reclaim after clear", s.reclaim)

	return n, nil
}

// goBackground runs fn on its own goroutine, tracked by Wait. Errors are
// logged. Nothing is started once Close has begun.
func (s *SQLiteStore) goBackground(name string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.tasks.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.tasks.Done()
		if err := fn(context.Background()); err != nil {
			s.log.Warn(name+" failed", "error", err)
		}
	}()
}

// Wait blocks until background tasks (startup maintenance, reclaims
// scheduled by Clear) have finished.
func (s *SQLiteStore) Wait() {
	s.tasks.Wait()
}

// Close waits for background tasks and releases prepared statements. The
// database is closed only when the store opened it.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.tasks.Wait()
	s.closeStatements()

	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) closeStatements() {
	stmts := []*sql.Stmt{
		s.getVisit, s.insertEntry, s.updateEntry,
		s.getEntry, s.deleteEntry,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
}

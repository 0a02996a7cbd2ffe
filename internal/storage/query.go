package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	defaultListLimit       = 50
	defaultSuggestionLimit = 8
	minSuggestionRunes     = 2
	topEntriesLimit        = 10
)

// List returns entries newest-visit first, optionally filtered by a
// substring of url or title and by a UTC-aligned time window. Read failures
// are logged and yield an empty slice.
func (s *SQLiteStore) List(ctx context.Context, q ListQuery) []HistoryEntry {
	entries, err := s.list(ctx, q)
	if err != nil {
		s.log.Warn("list history failed", "error", err)
		return []HistoryEntry{}
	}
	return entries
}

func (s *SQLiteStore) list(ctx context.Context, q ListQuery) ([]HistoryEntry, error) {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	var clauses []string
	var args []any

	if term := strings.TrimSpace(q.Search); term != "" {
		clause, clauseArgs := substringClause(term)
		clauses = append(clauses, clause)
		args = append(args, clauseArgs...)
	}

	if q.When != FilterNone {
		clause, clauseArgs, err := s.timeClause(q.When)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, clauseArgs...)
	}

	query := "SELECT " + entryColumns + " FROM history" + where(clauses) +
		" ORDER BY last_visit DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	return s.scanEntries(ctx, query, args...)
}

// timeClause translates a filter into bounds on last_visit, measured from
// the start of the current UTC day.
func (s *SQLiteStore) timeClause(f TimeFilter) (string, []any, error) {
	dayStart := utcDayStart(s.now())

	switch f {
	case FilterToday:
		return "last_visit >= ?", []any{dayStart}, nil
	case FilterYesterday:
		return "last_visit >= ? AND last_visit < ?", []any{dayStart - secondsPerDay, dayStart}, nil
	case FilterWeek:
		return "last_visit >= ?", []any{dayStart - 7*secondsPerDay}, nil
	case FilterMonth:
		return "last_visit >= ?", []any{dayStart - 30*secondsPerDay}, nil
	default:
		return "", nil, fmt.Errorf("%w: time filter %q", ErrInvalidRange, f)
	}
}

// Suggestions returns entries whose url or title contains partial, best
// frecency first. Inputs shorter than two characters yield no suggestions.
func (s *SQLiteStore) Suggestions(ctx context.Context, partial string, limit int) []HistoryEntry {
	partial = strings.TrimSpace(partial)
	if utf8.RuneCountInString(partial) < minSuggestionRunes {
		return []HistoryEntry{}
	}
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}

	clause, args := substringClause(partial)
	query := "SELECT " + entryColumns + " FROM history WHERE " + clause +
		" ORDER BY frecency DESC, last_visit DESC, id DESC LIMIT ?"
	args = append(args, limit)

	entries, err := s.scanEntries(ctx, query, args...)
	if err != nil {
		s.log.Warn("history suggestions failed", "partial", partial, "error", err)
		return []HistoryEntry{}
	}
	return entries
}

// Count returns the number of entries, or 0 if the count cannot be read.
func (s *SQLiteStore) Count(ctx context.Context) int64 {
	n, err := s.count(ctx)
	if err != nil {
		s.log.Warn("count history failed", "error", err)
		return 0
	}
	return n
}

func (s *SQLiteStore) count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrQuery, err)
	}
	return n, nil
}

// Stats returns aggregate statistics about the history database.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var oldest, newest sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(visit_count), 0), MIN(first_visit), MAX(last_visit) FROM history",
	).Scan(&stats.TotalEntries, &stats.TotalVisits, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate: %w", ErrQuery, err)
	}
	if oldest.Valid {
		stats.OldestVisit = fromEpoch(oldest.Float64)
	}
	if newest.Valid {
		stats.NewestVisit = fromEpoch(newest.Float64)
	}

	stats.DatabaseSizeBytes, err = s.sizeBytes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: database size: %w", ErrQuery, err)
	}

	stats.TopEntries, err = s.scanEntries(ctx,
		"SELECT "+entryColumns+" FROM history ORDER BY frecency DESC, last_visit DESC, id DESC LIMIT ?",
		topEntriesLimit,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// substringClause matches term anywhere in url or title. LIKE is
// case-insensitive for ASCII; wildcard characters in term match literally.
func substringClause(term string) (string, []any) {
	pattern := "%" + escapeLike(term) + "%"
	return `(url LIKE ? ESCAPE '\' OR title LIKE ? ESCAPE '\')`, []any{pattern, pattern}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func where(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

// scanEntries executes a query and scans results into a HistoryEntry slice.
func (s *SQLiteStore) scanEntries(ctx context.Context, query string, args ...any) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan entry: %w", ErrQuery, err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	return entries, nil
}

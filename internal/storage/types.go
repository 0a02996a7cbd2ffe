package storage

import (
	"fmt"
	"time"
)

// HistoryEntry is one visited URL and its aggregated visit data.
type HistoryEntry struct {
	ID         int64
	URL        string
	Title      string // empty when the page never reported a title
	VisitCount int
	FirstVisit time.Time
	LastVisit  time.Time
	Frecency   int
}

// TimeFilter restricts List to a window aligned on the UTC day boundary.
type TimeFilter string

const (
	FilterNone      TimeFilter = ""
	FilterToday     TimeFilter = "today"
	FilterYesterday TimeFilter = "yesterday"
	FilterWeek      TimeFilter = "week"
	FilterMonth     TimeFilter = "month"
)

// ParseTimeFilter validates a user-supplied filter name.
func ParseTimeFilter(s string) (TimeFilter, error) {
	switch f := TimeFilter(s); f {
	case FilterNone, FilterToday, FilterYesterday, FilterWeek, FilterMonth:
		return f, nil
	default:
		return FilterNone, fmt.Errorf("%w: time filter %q (use today, yesterday, week or month)", ErrInvalidRange, s)
	}
}

// ClearRange selects which entries Clear removes.
type ClearRange string

const (
	ClearHour  ClearRange = "hour"
	ClearToday ClearRange = "today"
	ClearAll   ClearRange = "all"
)

// ParseClearRange validates a user-supplied clear range.
func ParseClearRange(s string) (ClearRange, error) {
	switch r := ClearRange(s); r {
	case ClearHour, ClearToday, ClearAll:
		return r, nil
	default:
		return "", fmt.Errorf("%w: clear range %q (use hour, today or all)", ErrInvalidRange, s)
	}
}

// ListQuery defines paging and filters for List.
type ListQuery struct {
	Limit  int
	Offset int
	Search string
	When   TimeFilter
}

// Stats holds aggregate statistics about the history database.
type Stats struct {
	TotalEntries      int64
	TotalVisits       int64
	OldestVisit       time.Time
	NewestVisit       time.Time
	DatabaseSizeBytes int64
	TopEntries        []HistoryEntry
}

// Caps bounds the history database. A zero field disables that check.
type Caps struct {
	MaxSizeBytes   int64
	MaxEntries     int64
	CleanupPercent int
}

// Default caps.
const (
	DefaultMaxSizeMB      = 200
	DefaultMaxEntries     = 500000
	DefaultCleanupPercent = 20
)

// DefaultCaps returns the stock 200 MB / 500,000 entry / 20% policy.
func DefaultCaps() Caps {
	return Caps{
		MaxSizeBytes:   DefaultMaxSizeMB * 1024 * 1024,
		MaxEntries:     DefaultMaxEntries,
		CleanupPercent: DefaultCleanupPercent,
	}
}

// MaintenanceReport describes one cap check and what it did.
type MaintenanceReport struct {
	Entries        int64
	SizeBytes      int64
	OverSize       bool
	OverCount      bool
	Victims        int64 // rows selected for eviction
	Evicted        int64 // rows actually deleted
	SizeAfterBytes int64
}

// Exceeded reports whether either cap was breached.
func (r *MaintenanceReport) Exceeded() bool {
	return r.OverSize || r.OverCount
}

// toEpoch converts t to fractional seconds since the Unix epoch.
func toEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// fromEpoch converts fractional epoch seconds back to a UTC time.
func fromEpoch(sec float64) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second))).UTC()
}

// utcDayStart returns the epoch second of the UTC midnight that starts now's day.
func utcDayStart(now time.Time) float64 {
	s := now.Unix()
	return float64(s - s%secondsPerDay)
}

const secondsPerDay = 86400

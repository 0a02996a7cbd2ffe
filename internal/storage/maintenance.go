package storage

import (
	"context"
	"fmt"
	"os"
)

// reclaimChunkPages is how many free pages one incremental_vacuum step
// releases. Other statements can run between steps.
const reclaimChunkPages = 512

const autoVacuumIncremental = 2

// PlanMaintenance measures the store against its caps and reports how many
// entries eviction would remove, without changing anything.
func (s *SQLiteStore) PlanMaintenance(ctx context.Context) (*MaintenanceReport, error) {
	entries, err := s.count(ctx)
	if err != nil {
		return nil, err
	}
	size, err := s.sizeBytes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: database size: %w", ErrQuery, err)
	}

	rep := &MaintenanceReport{
		Entries:   entries,
		SizeBytes: size,
		OverSize:  s.caps.MaxSizeBytes > 0 && size > s.caps.MaxSizeBytes,
		OverCount: s.caps.MaxEntries > 0 && entries > s.caps.MaxEntries,
	}
	if rep.Exceeded() {
		rep.Victims = entries * int64(s.caps.CleanupPercent) / 100
	}
	return rep, nil
}

// Maintain enforces the caps now: when either is exceeded the oldest
// CleanupPercent of entries are evicted and free space is reclaimed.
func (s *SQLiteStore) Maintain(ctx context.Context) (*MaintenanceReport, error) {
	rep, err := s.PlanMaintenance(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMaintenance, err)
	}
	if !rep.Exceeded() {
		rep.SizeAfterBytes = rep.SizeBytes
		return rep, nil
	}

	s.log.Info("history over cap",
		"entries", rep.Entries, "max_entries", s.caps.MaxEntries,
		"size_bytes", rep.SizeBytes, "max_size_bytes", s.caps.MaxSizeBytes,
		"victims", rep.Victims,
	)

	if rep.Victims > 0 {
		rep.Evicted, err = s.evictOldest(ctx, rep.Victims)
		if err != nil {
			return rep, fmt.Errorf("%w: evict: %w", ErrMaintenance, err)
		}
	}

	if err := s.reclaim(ctx); err != nil {
		return rep, fmt.Errorf("%w: %w", ErrMaintenance, err)
	}

	rep.SizeAfterBytes, err = s.sizeBytes(ctx)
	if err != nil {
		return rep, fmt.Errorf("%w: database size: %w", ErrMaintenance, err)
	}

	s.log.Info("history maintenance done",
		"evicted", rep.Evicted, "size_before", rep.SizeBytes, "size_after", rep.SizeAfterBytes,
	)
	return rep, nil
}

// startupMaintenance is the one cap check Open schedules.
func (s *SQLiteStore) startupMaintenance(ctx context.Context) error {
	rep, err := s.Maintain(ctx)
	if err != nil {
		return err
	}
	if !rep.Exceeded() {
		s.log.Debug("history within caps", "entries", rep.Entries, "size_bytes", rep.SizeBytes)
	}
	return nil
}

// evictOldest deletes the n least recently visited entries. Ties on
// last_visit fall back to insertion order.
func (s *SQLiteStore) evictOldest(ctx context.Context, n int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		DELETE FROM history WHERE id IN (
			SELECT id FROM history ORDER BY last_visit ASC, id ASC LIMIT ?
		)
	`, n)
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// reclaim returns free pages to the filesystem. With incremental
// auto-vacuum the pages are released in chunks; older databases created
// without it fall back to a full VACUUM.
func (s *SQLiteStore) reclaim(ctx context.Context) error {
	var mode int
	if err := s.db.QueryRowContext(ctx, "PRAGMA auto_vacuum").Scan(&mode); err != nil {
		return fmt.Errorf("read auto_vacuum: %w", err)
	}

	if mode == autoVacuumIncremental {
		if err := s.incrementalVacuum(ctx); err != nil {
			return err
		}
	} else if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}

	if s.path == "" || s.path == MemoryPath {
		return nil
	}
	var busy, logFrames, checkpointed int
	if err := s.db.QueryRowContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)").Scan(&busy, &logFrames, &checkpointed); err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}
	return nil
}

func (s *SQLiteStore) incrementalVacuum(ctx context.Context) error {
	prev := int64(-1)
	for {
		var free int64
		if err := s.db.QueryRowContext(ctx, "PRAGMA freelist_count").Scan(&free); err != nil {
			return fmt.Errorf("read freelist: %w", err)
		}
		if free == 0 || free == prev {
			return nil
		}
		prev = free

		// The pragma does its work while stepped, so drain it.
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA incremental_vacuum(%d)", reclaimChunkPages))
		if err != nil {
			return fmt.Errorf("incremental vacuum: %w", err)
		}
		for rows.Next() {
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("incremental vacuum: %w", err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// sizeBytes is the database's page footprint plus any WAL file on disk.
func (s *SQLiteStore) sizeBytes(ctx context.Context) (int64, error) {
	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0, err
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, err
	}
	size := pageCount * pageSize

	if s.path != "" && s.path != MemoryPath {
		if info, err := os.Stat(s.path + "-wal"); err == nil {
			size += info.Size()
		}
	}
	return size, nil
}

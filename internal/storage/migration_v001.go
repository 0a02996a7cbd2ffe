package storage

import "database/sql"

// migrateV001 creates the history table and its indexes. Timestamps are
// REAL seconds since the epoch so same-second visits still order.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			url         TEXT NOT NULL UNIQUE,
			title       TEXT,
			visit_count INTEGER NOT NULL DEFAULT 1 CHECK (visit_count >= 1),
			last_visit  REAL NOT NULL,
			first_visit REAL NOT NULL,
			frecency    INTEGER NOT NULL DEFAULT 0,
			CHECK (last_visit >= first_visit)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_history_url        ON history(url)`,
		`CREATE INDEX IF NOT EXISTS idx_history_last_visit ON history(last_visit DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_history_frecency   ON history(frecency DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_history_title      ON history(title)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/justyntemme/quiver/internal/debug"
)

// Usage is one row of the usage table.
type Usage struct {
	Mode  string
	Key   string
	Count int
}

// DB persists per-mode launch counts. Each mode keys its candidates
// differently: apps by desktop file name, bins by absolute path.
type DB struct {
	conn *sql.DB
}

func NewDB() *DB {
	return &DB{}
}

// Open initializes the database connection and schema
func (d *DB) Open(dbPath string) error {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// WAL lets a forked launcher and a fresh one share the file
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=2000;"); err != nil {
		db.Close()
		return err
	}

	query := `
	CREATE TABLE IF NOT EXISTS usage (
		mode TEXT NOT NULL,
		key TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		last_used DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (mode, key)
	);
	`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return err
	}

	d.conn = db
	debug.Log(debug.STORE, "opened %s", dbPath)
	return nil
}

func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// UsageCounts returns key -> count for one mode.
func (d *DB) UsageCounts(mode string) (map[string]int, error) {
	if d.conn == nil {
		return map[string]int{}, nil
	}
	rows, err := d.conn.Query("SELECT key, count FROM usage WHERE mode = ?", mode)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			log.Printf("Store Error: %v", err)
			continue
		}
		counts[key] = count
	}
	debug.Log(debug.STORE, "mode %s: %d usage rows", mode, len(counts))
	return counts, rows.Err()
}

// IncrementUsage bumps the count for key by one.
func (d *DB) IncrementUsage(mode, key string) error {
	if d.conn == nil {
		return nil
	}
	_, err := d.conn.Exec(`
	INSERT INTO usage (mode, key, count) VALUES (?, ?, 1)
	ON CONFLICT(mode, key) DO UPDATE SET count = count + 1, last_used = CURRENT_TIMESTAMP
	`, mode, key)
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	debug.Log(debug.STORE, "mode %s: +1 %s", mode, key)
	return nil
}

// Top returns up to limit rows ordered by count. An empty mode lists all
// modes; limit <= 0 means no limit.
func (d *DB) Top(mode string, limit int) ([]Usage, error) {
	if d.conn == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.conn.Query(`
	SELECT mode, key, count FROM usage
	WHERE ? = '' OR mode = ?
	ORDER BY count DESC, mode ASC, key ASC
	LIMIT ?
	`, mode, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var out []Usage
	for rows.Next() {
		var u Usage
		if err := rows.Scan(&u.Mode, &u.Key, &u.Count); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Reset deletes the counts of one mode, or of every mode when mode is empty.
func (d *DB) Reset(mode string) error {
	if d.conn == nil {
		return nil
	}
	_, err := d.conn.Exec("DELETE FROM usage WHERE ? = '' OR mode = ?", mode, mode)
	if err != nil {
		return fmt.Errorf("reset usage: %w", err)
	}
	return nil
}

// Package storage provides a SQLite log of finished battles.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Results recorded by the battle scenes.
const (
	ResultWon     = "won"
	ResultRetreat = "retreat"
)

// Store manages the SQLite database connection for the outcome log.
type Store struct {
	db *sql.DB
}

// Outcome is one finished battle.
type Outcome struct {
	ID        int64
	SceneID   string
	Result    string  // ResultWon or ResultRetreat
	Duration  float64 // simulated seconds
	Defeated  int
	CreatedAt time.Time
}

// SceneStats aggregates the outcomes of one scene.
type SceneStats struct {
	SceneID    string
	Battles    int
	Wins       int
	Retreats   int
	BestTime   float64 // fastest win, 0 without wins
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			result TEXT NOT NULL,
			duration_secs REAL NOT NULL DEFAULT 0,
			defeated INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_outcomes_scene_id ON outcomes(scene_id);
		CREATE INDEX IF NOT EXISTS idx_outcomes_best ON outcomes(scene_id, result, duration_secs);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveOutcome records a finished battle.
// Returns the ID of the inserted record.
func (s *Store) SaveOutcome(o Outcome) (int64, error) {
	if o.SceneID == "" || o.Result == "" {
		return 0, errors.New("storage: outcome needs a scene id and a result")
	}
	result, err := s.db.Exec(
		"INSERT INTO outcomes (scene_id, result, duration_secs, defeated) VALUES (?, ?, ?, ?)",
		o.SceneID, o.Result, o.Duration, o.Defeated,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save outcome: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentOutcomes retrieves the latest outcomes, newest first. An empty
// sceneID returns outcomes of every scene.
func (s *Store) RecentOutcomes(sceneID string, limit int) ([]Outcome, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, result, duration_secs, defeated, created_at
		 FROM outcomes
		 WHERE ? = '' OR scene_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sceneID, sceneID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		var createdAt any
		if err := rows.Scan(&o.ID, &o.SceneID, &o.Result, &o.Duration, &o.Defeated, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		o.CreatedAt = parseTime(createdAt)
		out = append(out, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// BestTime returns the fastest win for a scene. ok is false when the scene
// has never been won.
func (s *Store) BestTime(sceneID string) (best float64, ok bool, err error) {
	var v sql.NullFloat64
	err = s.db.QueryRow(
		"SELECT MIN(duration_secs) FROM outcomes WHERE scene_id = ? AND result = ?",
		sceneID, ResultWon,
	).Scan(&v)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot get best time: %w", err)
	}
	return v.Float64, v.Valid, nil
}

// ClearOutcomes removes every outcome of a scene.
func (s *Store) ClearOutcomes(sceneID string) error {
	_, err := s.db.Exec("DELETE FROM outcomes WHERE scene_id = ?", sceneID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear outcomes: %w", err)
	}
	return nil
}

// AllSceneStats retrieves statistics for every scene that has been played.
func (s *Store) AllSceneStats() (map[string]*SceneStats, error) {
	rows, err := s.db.Query(
		`SELECT scene_id,
		        COUNT(*),
		        SUM(CASE WHEN result = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN result = ? THEN 1 ELSE 0 END),
		        COALESCE(MIN(CASE WHEN result = ? THEN duration_secs END), 0),
		        MAX(created_at)
		 FROM outcomes
		 GROUP BY scene_id`,
		ResultWon, ResultRetreat, ResultWon,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SceneStats)
	for rows.Next() {
		var st SceneStats
		var lastPlayed any
		if err := rows.Scan(&st.SceneID, &st.Battles, &st.Wins, &st.Retreats, &st.BestTime, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.SceneID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

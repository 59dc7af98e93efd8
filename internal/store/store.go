// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benjcrowley/bom-speed-reader/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for preferences and reading history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reading_sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			start_chapter INTEGER NOT NULL,
			start_word INTEGER NOT NULL,
			end_chapter INTEGER NOT NULL,
			end_word INTEGER NOT NULL,
			words_shown INTEGER NOT NULL,
			chapters_completed INTEGER NOT NULL,
			final_wpm REAL NOT NULL,
			goal TEXT NOT NULL,
			reason TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reading_sessions_ended_at ON reading_sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the stored value for key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// timeLayout is fixed-width UTC so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// RecordSession stores a finished reading session.
func (s *Store) RecordSession(ctx context.Context, rs model.ReadingSession) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reading_sessions (id, started_at, ended_at, start_chapter, start_word, end_chapter, end_word, words_shown, chapters_completed, final_wpm, goal, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rs.ID,
		formatTime(rs.StartedAt),
		formatTime(rs.EndedAt),
		rs.StartCursor.Chapter,
		rs.StartCursor.Word,
		rs.EndCursor.Chapter,
		rs.EndCursor.Word,
		rs.WordsShown,
		rs.ChaptersCompleted,
		rs.FinalWPM,
		rs.Goal,
		string(rs.Reason),
	)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// ListSessions returns reading sessions in ascending end time. Last keeps
// only the most recent sessions after the Since filter.
func (s *Store) ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.ReadingSession, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, start_chapter, start_word, end_chapter, end_word,
			words_shown, chapters_completed, final_wpm, goal, reason
		FROM reading_sessions
		WHERE %s
		ORDER BY ended_at DESC`, strings.Join(clauses, " AND "))
	if cfg.Last > 0 {
		query += " LIMIT ?"
		args = append(args, cfg.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.ReadingSession
	for rows.Next() {
		var (
			rs                 model.ReadingSession
			startedAt, endedAt string
			reason             string
		)
		if err := rows.Scan(&rs.ID, &startedAt, &endedAt,
			&rs.StartCursor.Chapter, &rs.StartCursor.Word,
			&rs.EndCursor.Chapter, &rs.EndCursor.Word,
			&rs.WordsShown, &rs.ChaptersCompleted, &rs.FinalWPM, &rs.Goal, &reason); err != nil {
			return nil, err
		}
		if rs.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if rs.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		rs.Reason = model.StopReason(reason)
		sessions = append(sessions, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}

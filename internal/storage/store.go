package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// RoomRow represents a room in the database.
type RoomRow struct {
	Code      string
	CreatedAt time.Time
}

// ResultRow represents one finished game.
type ResultRow struct {
	ID         int64
	RoomCode   string
	WinnerID   string
	WinnerName string
	Rounds     int
	ScoresJSON string // final standings as JSON
	FinishedAt time.Time
}

// Store handles SQLite persistence. Live game state never touches the
// database; only room bookkeeping and finished-game results do.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS rooms (
			code       TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS results (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			room_code   TEXT NOT NULL,
			winner_id   TEXT NOT NULL,
			winner_name TEXT NOT NULL,
			rounds      INTEGER NOT NULL,
			scores_json TEXT NOT NULL,
			finished_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_room ON results(room_code);
	`)
	return err
}

// CreateRoom inserts a new room.
func (s *Store) CreateRoom(code string) error {
	_, err := s.db.Exec("INSERT INTO rooms (code) VALUES (?)", code)
	return err
}

// GetRoom retrieves a room by code.
func (s *Store) GetRoom(code string) (*RoomRow, error) {
	row := s.db.QueryRow("SELECT code, created_at FROM rooms WHERE code = ?", code)
	var rr RoomRow
	if err := row.Scan(&rr.Code, &rr.CreatedAt); err != nil {
		return nil, err
	}
	return &rr, nil
}

// DeleteRoom removes a room. Its results history is kept.
func (s *Store) DeleteRoom(code string) error {
	_, err := s.db.Exec("DELETE FROM rooms WHERE code = ?", code)
	return err
}

// RecordResult appends a finished game to the history.
func (s *Store) RecordResult(r ResultRow) error {
	_, err := s.db.Exec(`
		INSERT INTO results (room_code, winner_id, winner_name, rounds, scores_json)
		VALUES (?, ?, ?, ?, ?)
	`, r.RoomCode, r.WinnerID, r.WinnerName, r.Rounds, r.ScoresJSON)
	return err
}

// ListResults returns a room's finished games, most recent first.
func (s *Store) ListResults(roomCode string) ([]ResultRow, error) {
	rows, err := s.db.Query(`
		SELECT id, room_code, winner_id, winner_name, rounds, scores_json, finished_at
		FROM results WHERE room_code = ? ORDER BY finished_at DESC, id DESC
	`, roomCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []ResultRow
	for rows.Next() {
		var rr ResultRow
		if err := rows.Scan(&rr.ID, &rr.RoomCode, &rr.WinnerID, &rr.WinnerName, &rr.Rounds, &rr.ScoresJSON, &rr.FinishedAt); err != nil {
			return nil, err
		}
		result = append(result, rr)
	}
	return result, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

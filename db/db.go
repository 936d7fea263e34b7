package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store keeps a log of every publisher operation that was executed.
type Store struct {
	db *sql.DB
}

type OperationRecord struct {
	ID         int64     `json:"id"`
	Op         string    `json:"op"`
	Image      string    `json:"image"`
	Command    string    `json:"command"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	ExitCode   int       `json:"exit_code"`
	Stderr     string    `json:"stderr"`
}

func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS operations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			op TEXT NOT NULL,
			image TEXT NOT NULL,
			command TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			exit_code INTEGER NOT NULL,
			stderr TEXT
		)
	`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create operations table: %w", err)
	}

	return &Store{db: conn}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LogOperation inserts rec and returns its id. rec.ID is ignored.
func (s *Store) LogOperation(rec OperationRecord) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO operations (op, image, command, started_at, duration_ms, exit_code, stderr)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.Op, rec.Image, rec.Command, rec.StartedAt, rec.DurationMs, rec.ExitCode, rec.Stderr)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// GetAllOperations returns every logged operation, newest first.
func (s *Store) GetAllOperations() ([]OperationRecord, error) {
	rows, err := s.db.Query("SELECT id, op, image, command, started_at, duration_ms, exit_code, stderr FROM operations ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []OperationRecord
	for rows.Next() {
		var r OperationRecord
		var stderr sql.NullString
		if err := rows.Scan(&r.ID, &r.Op, &r.Image, &r.Command, &r.StartedAt, &r.DurationMs, &r.ExitCode, &stderr); err != nil {
			return nil, err
		}
		r.Stderr = stderr.String
		ops = append(ops, r)
	}
	return ops, rows.Err()
}

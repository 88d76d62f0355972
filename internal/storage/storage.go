package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Storage struct {
	db *sqlx.DB
}

// Open connects to the database and creates any missing table. Local files
// ("file:" URLs, plain paths and ":memory:") go through sqlite3, anything
// else (libsql://, https://) through the libsql client.
func Open(connString string) (*Storage, error) {
	if connString == "" {
		return nil, errors.New("empty database connection string")
	}

	driver := driverFor(connString)
	db, err := sqlx.Open(driver, connString)
	if err != nil {
		return nil, fmt.Errorf("Failed to open db %s: %w", connString, err)
	}
	if driver == "sqlite3" {
		// One connection keeps :memory: databases alive across calls.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to reach db %s: %w", connString, err)
	}
	if err := initializeDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to initialize database: %w", err)
	}

	return &Storage{db: db}, nil
}

func driverFor(connString string) string {
	switch {
	case strings.HasPrefix(connString, "libsql://"),
		strings.HasPrefix(connString, "http://"),
		strings.HasPrefix(connString, "https://"),
		strings.HasPrefix(connString, "wss://"),
		strings.HasPrefix(connString, "ws://"):
		return "libsql"
	default:
		return "sqlite3"
	}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// tables lists every table in dependency order.
var tables = []string{"exercises", "discoveries", "discovery_sets", "training_sessions"}

func initializeDB(db *sqlx.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS exercises (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            exercise_type TEXT NOT NULL,
            created_at TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS discoveries (
            id TEXT PRIMARY KEY,
            exercise_id TEXT NOT NULL UNIQUE,
            exercise_type TEXT NOT NULL,
            goal TEXT NOT NULL,
            phase TEXT NOT NULL,
            current_weight REAL NOT NULL DEFAULT 0,
            last_velocity REAL NOT NULL DEFAULT 0,
            started_at TEXT NOT NULL,
            completed_at TEXT,
            recommendation TEXT,
            FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS discovery_sets (
            id TEXT PRIMARY KEY,
            discovery_id TEXT NOT NULL,
            set_index INTEGER NOT NULL,
            weight REAL NOT NULL,
            reps INTEGER NOT NULL,
            mean_velocity REAL NOT NULL,
            peak_velocity REAL NOT NULL DEFAULT 0,
            rpe REAL,
            failed INTEGER NOT NULL DEFAULT 0,
            notes TEXT NOT NULL DEFAULT '',
            timestamp TEXT NOT NULL,
            FOREIGN KEY (discovery_id) REFERENCES discoveries(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS training_sessions (
            id TEXT PRIMARY KEY,
            exercise_id TEXT NOT NULL,
            start_time TEXT NOT NULL,
            weight REAL NOT NULL,
            sets_completed INTEGER NOT NULL,
            total_reps INTEGER NOT NULL,
            target_reps INTEGER NOT NULL DEFAULT 0,
            avg_rir REAL NOT NULL DEFAULT 0,
            avg_velocity_loss REAL NOT NULL DEFAULT 0,
            estimated_one_rm REAL NOT NULL DEFAULT 0,
            is_deload INTEGER NOT NULL DEFAULT 0,
            FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
        );

        CREATE INDEX IF NOT EXISTS idx_training_sessions_exercise
            ON training_sessions (exercise_id, start_time);
    `)
	return err
}

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/neilberkman/espressolog/internal/core/models"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database holding an exported copy of the brew log
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes schema
func New(dbPath string) (*DB, error) {
	// Ensure parent directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// QueryRow executes a query that returns a single row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// ReplaceBrews replaces the brews table with entries in one transaction.
// log_index is the entry's position in the brew log.
func (db *DB) ReplaceBrews(entries []models.BrewLogEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM brews`); err != nil {
		return fmt.Errorf("clear brews: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO brews (
			log_index, brewed_at, bean_name, grinder, dose, grind_size,
			pre_infusion_time, yield, shot_time, sourness, bitterness,
			sweetness, body, overall_satisfaction, notes, suggestion, favorite
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range entries {
		s := e.Session
		_, err := stmt.Exec(
			i, e.Timestamp.Format(models.TimestampLayout), s.BeanName, s.Grinder,
			s.Dose, s.GrindSize, s.PreInfusionTime, s.Yield, s.ShotTime,
			s.Sourness, s.Bitterness, s.Sweetness, s.Body, s.OverallSatisfaction,
			s.Notes, e.Suggestion, s.Favorite,
		)
		if err != nil {
			return fmt.Errorf("insert brew %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// CountBrews returns the number of exported brews
func (db *DB) CountBrews() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM brews`).Scan(&count)
	return count, err
}

// Package db stores batch schedules in SQLite. Experiment records live in
// the file store; only schedule definitions need queryable storage.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dungscout96/prompt-experiment/internal/models"
)

// DB wraps the SQLite schedule store
type DB struct {
	db   *sql.DB
	path string
}

// New creates a schedule store backed by the SQLite file at path
func New(path string) *DB {
	return &DB{path: path}
}

// Connect opens the database, creating the file and schema as needed
func (d *DB) Connect(ctx context.Context) error {
	// Expand the path (handle ~ and relative paths)
	dbPath := d.path
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	} else if !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(dbPath)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		dbPath = absPath
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	d.db = db

	if err := d.createTables(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Disconnect closes the database
func (d *DB) Disconnect(ctx context.Context) error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Ping checks the database connection
func (d *DB) Ping(ctx context.Context) error {
	if d.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return d.db.PingContext(ctx)
}

func (d *DB) createTables(ctx context.Context) error {
	createSchedulesTable := `
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		model TEXT NOT NULL,
		grader_model TEXT,
		descriptions TEXT NOT NULL, -- JSON array of descriptions
		cron_expr TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		last_run DATETIME,
		next_run DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	createIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_schedules_enabled ON schedules(enabled);",
		"CREATE INDEX IF NOT EXISTS idx_schedules_next_run ON schedules(next_run);",
	}

	queries := append([]string{createSchedulesTable}, createIndexes...)
	for _, query := range queries {
		if _, err := d.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// Schedule Operations

// CreateSchedule creates a new schedule
func (d *DB) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	descriptions, err := json.Marshal(schedule.Descriptions)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptions: %w", err)
	}

	query := `
		INSERT INTO schedules (id, name, model, grader_model, descriptions, cron_expr, enabled, last_run, next_run, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = d.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.Name,
		schedule.Model,
		schedule.GraderModel,
		string(descriptions),
		schedule.CronExpr,
		schedule.Enabled,
		schedule.LastRun,
		schedule.NextRun,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	return err
}

// GetSchedule retrieves a schedule by ID
func (d *DB) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	query := `
		SELECT id, name, model, grader_model, descriptions, cron_expr, enabled, last_run, next_run, created_at, updated_at
		FROM schedules WHERE id = ?`

	schedule, err := scanSchedule(d.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schedule not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	return schedule, nil
}

// ListSchedules lists all schedules, optionally filtered by enabled status
func (d *DB) ListSchedules(ctx context.Context, enabled *bool) ([]*models.Schedule, error) {
	query := `
		SELECT id, name, model, grader_model, descriptions, cron_expr, enabled, last_run, next_run, created_at, updated_at
		FROM schedules`
	args := []interface{}{}

	if enabled != nil {
		query += " WHERE enabled = ?"
		args = append(args, *enabled)
	}

	query += " ORDER BY created_at DESC"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	return schedules, rows.Err()
}

// UpdateSchedule updates an existing schedule
func (d *DB) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now()

	descriptions, err := json.Marshal(schedule.Descriptions)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptions: %w", err)
	}

	query := `
		UPDATE schedules
		SET name = ?, model = ?, grader_model = ?, descriptions = ?, cron_expr = ?, enabled = ?, last_run = ?, next_run = ?, updated_at = ?
		WHERE id = ?`

	result, err := d.db.ExecContext(ctx, query,
		schedule.Name,
		schedule.Model,
		schedule.GraderModel,
		string(descriptions),
		schedule.CronExpr,
		schedule.Enabled,
		schedule.LastRun,
		schedule.NextRun,
		schedule.UpdatedAt,
		schedule.ID,
	)

	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("schedule not found: %s", schedule.ID)
	}

	return nil
}

// DeleteSchedule deletes a schedule
func (d *DB) DeleteSchedule(ctx context.Context, id string) error {
	query := "DELETE FROM schedules WHERE id = ?"
	result, err := d.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("schedule not found: %s", id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	var schedule models.Schedule
	var descriptionsJSON string
	var graderModel sql.NullString

	err := row.Scan(
		&schedule.ID,
		&schedule.Name,
		&schedule.Model,
		&graderModel,
		&descriptionsJSON,
		&schedule.CronExpr,
		&schedule.Enabled,
		&schedule.LastRun,
		&schedule.NextRun,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.GraderModel = graderModel.String
	if err := json.Unmarshal([]byte(descriptionsJSON), &schedule.Descriptions); err != nil {
		return nil, fmt.Errorf("failed to parse descriptions for schedule %s: %w", schedule.ID, err)
	}

	return &schedule, nil
}

// Package store provides the SQLite-backed journal and snapshot for todo.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/todo/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides access to the todo SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		due_date INTEGER NOT NULL,
		priority INTEGER NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		outcome TEXT NOT NULL,
		task_id INTEGER,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_task_id ON events(task_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Snapshot Operations ---

// ReplaceTasks overwrites the snapshot with tasks in a single transaction.
// Slice order is kept as the snapshot's insertion order.
func (s *Store) ReplaceTasks(ctx context.Context, tasks []models.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tasks (id, position, description, category, due_date, priority, completed) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.ExecContext(ctx, t.ID, i, t.Description, t.Category, t.DueDate, t.Priority, t.Completed); err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LoadTasks returns the snapshot in insertion order.
func (s *Store) LoadTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, category, due_date, priority, completed FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Category, &t.DueDate, &t.Priority, &t.Completed); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// --- Event Operations ---

// WriteEvent appends a journal event.
func (s *Store) WriteEvent(ctx context.Context, action, inputsHash, outcome string, taskID int, details string) (*models.Event, error) {
	ev := &models.Event{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		Outcome:    outcome,
		TaskID:     taskID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	var tid sql.NullInt64
	if taskID > 0 {
		tid = sql.NullInt64{Int64: int64(taskID), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, action, inputs_hash, outcome, task_id, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Action, ev.InputsHash, ev.Outcome, tid, ev.Details, ev.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return ev, nil
}

// EventsForTask returns the journal events for a task, oldest first.
func (s *Store) EventsForTask(ctx context.Context, taskID int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, inputs_hash, outcome, task_id, details, timestamp FROM events WHERE task_id = ? ORDER BY timestamp, rowid`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var tid sql.NullInt64
		var details sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Action, &ev.InputsHash, &ev.Outcome, &tid, &details, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if tid.Valid {
			ev.TaskID = int(tid.Int64)
		}
		if details.Valid {
			ev.Details = details.String
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Package tracker ties one task store session to its data file and the
// optional SQLite journal.
package tracker

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fentz26/todo/internal/audit"
	"github.com/fentz26/todo/internal/flatfile"
	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/store"
	"github.com/fentz26/todo/internal/taskstore"
)

// Options configures a Service.
type Options struct {
	// DataFile is loaded on Open and written by Save.
	DataFile string
	// DBPath enables the journal when set.
	DBPath string
	Logger *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service provides task operations for one session.
type Service struct {
	tasks    *taskstore.Store
	dataFile string
	db       *store.Store
	recorder *audit.Recorder
	logger   *log.Logger
	now      func() time.Time
}

// Open creates a Service and loads opts.DataFile when it exists.
func Open(ctx context.Context, opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Service{
		tasks:    taskstore.New(taskstore.WithLogger(logger)),
		dataFile: opts.DataFile,
		logger:   logger,
		now:      now,
	}

	if opts.DBPath != "" {
		db, err := store.New(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		s.db = db
		s.recorder = audit.NewRecorder(db)
	}

	if s.dataFile != "" {
		loaded, err := flatfile.ReadFile(s.dataFile)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("load tasks: %w", err)
		}
		if err := s.restore(loaded); err != nil {
			s.Close()
			return nil, err
		}
		logger.Debug("loaded tasks", "file", s.dataFile, "count", len(loaded))
	}
	return s, nil
}

func (s *Service) restore(tasks []models.Task) error {
	for _, t := range tasks {
		if err := s.tasks.Restore(t); err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
	}
	return nil
}

// Close closes the journal, if any.
func (s *Service) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Now returns the session clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// DataFile returns the file Save writes to.
func (s *Service) DataFile() string {
	return s.dataFile
}

// --- Task Operations ---

// AddTask creates a task. An out-of-range priority is replaced by the
// default rather than rejected.
func (s *Service) AddTask(ctx context.Context, description, category string, dueDate int64, priority int) models.Task {
	id := s.tasks.Add(description, category, dueDate, priority)
	task, _ := s.tasks.Get(id)

	s.record(ctx, "task.add", map[string]interface{}{
		"description": description, "category": category, "due_date": dueDate, "priority": priority,
	}, audit.OutcomeSuccess, id, category)
	s.logger.Debug("task added", "id", id, "category", category, "priority", task.Priority)
	return task
}

// RemoveTask deletes a task.
func (s *Service) RemoveTask(ctx context.Context, id int) error {
	if !s.tasks.Remove(id) {
		s.record(ctx, "task.remove", map[string]int{"id": id}, audit.OutcomeNotFound, id, "")
		return fmt.Errorf("remove %d: %w", id, ErrTaskNotFound)
	}
	s.record(ctx, "task.remove", map[string]int{"id": id}, audit.OutcomeSuccess, id, "")
	return nil
}

// CompleteTask marks a task as completed. Completing it again succeeds.
func (s *Service) CompleteTask(ctx context.Context, id int) error {
	if !s.tasks.Complete(id) {
		s.record(ctx, "task.complete", map[string]int{"id": id}, audit.OutcomeNotFound, id, "")
		return fmt.Errorf("complete %d: %w", id, ErrTaskNotFound)
	}
	s.record(ctx, "task.complete", map[string]int{"id": id}, audit.OutcomeSuccess, id, "")
	return nil
}

// GetTask retrieves a task by ID.
func (s *Service) GetTask(id int) (models.Task, error) {
	t, ok := s.tasks.Get(id)
	if !ok {
		return models.Task{}, fmt.Errorf("get %d: %w", id, ErrTaskNotFound)
	}
	return t, nil
}

// All returns every task in insertion order.
func (s *Service) All() []models.Task {
	return s.tasks.ListAll()
}

// ByCategory returns the tasks in one category, in insertion order.
func (s *Service) ByCategory(category string) []models.Task {
	return s.tasks.ListByCategory(category)
}

// ByPriority returns every task ordered by priority, then due date.
func (s *Service) ByPriority() []models.Task {
	return s.tasks.ListByPriority()
}

// Pending yields the tasks that are not completed.
func (s *Service) Pending() iter.Seq[models.Task] {
	return s.tasks.ListPending()
}

// Categories returns the labels that have tasks.
func (s *Service) Categories() []string {
	return s.tasks.Categories()
}

// Len returns the number of tasks.
func (s *Service) Len() int {
	return s.tasks.Len()
}

// Seed adds the sample tasks used by demo mode.
func (s *Service) Seed(ctx context.Context) {
	now := s.now()
	samples := []struct {
		desc, category string
		days, priority int
	}{
		{"Complete DSA assignment", "University", 7, 2},
		{"Buy avocado", "Personal", 1, 3},
		{"Pay phone bill", "Finance", 5, 1},
		{"Call Mom", "Personal", 2, 4},
	}
	for _, smp := range samples {
		s.AddTask(ctx, smp.desc, smp.category, models.DueIn(now, smp.days), smp.priority)
	}
}

// --- Persistence ---

// Save writes every task to the session's data file.
func (s *Service) Save(ctx context.Context) error {
	return s.SaveAs(ctx, s.dataFile)
}

// SaveAs writes every task to path. On failure the destination is left as
// it was and the in-memory tasks are unaffected.
func (s *Service) SaveAs(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("%w: no destination file", ErrSaveFailed)
	}
	tasks := s.tasks.ListAll()
	if err := flatfile.WriteFile(path, tasks); err != nil {
		s.record(ctx, "tasks.save", map[string]string{"path": path}, audit.OutcomeFailed, 0, err.Error())
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	s.record(ctx, "tasks.save", map[string]string{"path": path}, audit.OutcomeSuccess, 0, fmt.Sprintf("%d tasks", len(tasks)))
	s.logger.Info("tasks saved", "file", path, "count", len(tasks))
	return nil
}

// --- Journal Operations ---

// History returns the journal events for a task.
func (s *Service) History(ctx context.Context, id int) ([]models.Event, error) {
	if s.db == nil {
		return nil, ErrNoJournal
	}
	return s.db.EventsForTask(ctx, id)
}

// PushSnapshot copies the current tasks into the journal database.
func (s *Service) PushSnapshot(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrNoJournal
	}
	tasks := s.tasks.ListAll()
	if err := s.db.ReplaceTasks(ctx, tasks); err != nil {
		return 0, err
	}
	s.record(ctx, "snapshot.push", map[string]int{"count": len(tasks)}, audit.OutcomeSuccess, 0, "")
	return len(tasks), nil
}

// PullSnapshot replaces the in-memory tasks with the journal's snapshot.
// The current tasks are kept when the snapshot cannot be read.
func (s *Service) PullSnapshot(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrNoJournal
	}
	tasks, err := s.db.LoadTasks(ctx)
	if err != nil {
		return 0, err
	}

	fresh := taskstore.New(taskstore.WithLogger(s.logger))
	for _, t := range tasks {
		if err := fresh.Restore(t); err != nil {
			return 0, fmt.Errorf("pull snapshot: %w", err)
		}
	}
	s.tasks = fresh
	s.record(ctx, "snapshot.pull", map[string]int{"count": len(tasks)}, audit.OutcomeSuccess, 0, "")
	return len(tasks), nil
}

// record writes a journal event. Journal failures are logged, never
// returned, so they cannot fail the task operation itself.
func (s *Service) record(ctx context.Context, action string, inputs interface{}, outcome string, taskID int, details string) {
	if _, err := s.recorder.Record(ctx, action, inputs, outcome, taskID, details); err != nil {
		s.logger.Warn("journal write failed", "action", action, "err", err)
	}
}

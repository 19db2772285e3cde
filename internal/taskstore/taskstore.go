// Package taskstore holds the in-memory task collection and the indices
// derived from it.
//
// The primary collection is the only owner of task values. The identifier
// index, category index and priority order store task ids and are updated
// together with the collection under one lock, so every mutation leaves all
// four structures describing the same set of live tasks.
package taskstore

import (
	"container/list"
	"fmt"
	"iter"
	"slices"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/models"
)

// Store is the task collection plus its identifier, category and priority
// indices.
type Store struct {
	mu sync.RWMutex

	tasks      *list.List // of *models.Task, insertion order
	byID       map[int]*list.Element
	byCategory map[string][]int
	byPriority []int

	nextID int
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for validation notices.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty Store. The first id it assigns is 1.
func New(opts ...Option) *Store {
	s := &Store{
		tasks:      list.New(),
		byID:       make(map[int]*list.Element),
		byCategory: make(map[string][]int),
		nextID:     1,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Less orders tasks by priority, then by due date.
func Less(a, b models.Task) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.DueDate < b.DueDate
}

// Add inserts a new task and returns its id. A priority outside [1,5] is
// replaced by the default and a warning is logged.
func (s *Store) Add(description, category string, dueDate int64, priority int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	priority = s.checkPriority(s.nextID, priority)
	t := &models.Task{
		ID:          s.nextID,
		Description: description,
		Category:    category,
		DueDate:     dueDate,
		Priority:    priority,
	}
	s.insert(t)
	s.nextID++
	return t.ID
}

// Restore inserts a task that already carries an id, as read back from
// persistence. The next assigned id stays above every restored id.
func (s *Store) Restore(t models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID < 1 {
		return fmt.Errorf("restore task: invalid id %d", t.ID)
	}
	if _, ok := s.byID[t.ID]; ok {
		return fmt.Errorf("restore task: duplicate id %d", t.ID)
	}
	t.Priority = s.checkPriority(t.ID, t.Priority)
	s.insert(&t)
	if t.ID >= s.nextID {
		s.nextID = t.ID + 1
	}
	return nil
}

func (s *Store) checkPriority(id, priority int) int {
	if models.ValidPriority(priority) {
		return priority
	}
	s.logger.Warn("priority must be between 1 and 5, using default",
		"task_id", id, "priority", priority, "default", models.PriorityDefault)
	return models.PriorityDefault
}

// insert links t into the collection and all three indices. Caller holds mu.
func (s *Store) insert(t *models.Task) {
	s.byID[t.ID] = s.tasks.PushBack(t)
	s.byCategory[t.Category] = append(s.byCategory[t.Category], t.ID)

	// Upper bound keeps equal keys in insertion order, matching a stable sort.
	pos := sort.Search(len(s.byPriority), func(i int) bool {
		return Less(*t, s.task(s.byPriority[i]))
	})
	s.byPriority = slices.Insert(s.byPriority, pos, t.ID)
}

// task returns the record for a live id. Caller holds mu.
func (s *Store) task(id int) models.Task {
	return *s.byID[id].Value.(*models.Task)
}

// Remove deletes the task with the given id from the collection and every
// index. It reports false, changing nothing, when the id is unknown.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.byID[id]
	if !ok {
		return false
	}
	t := el.Value.(*models.Task)

	match := func(v int) bool { return v == id }
	s.byCategory[t.Category] = slices.DeleteFunc(s.byCategory[t.Category], match)
	s.byPriority = slices.DeleteFunc(s.byPriority, match)
	s.tasks.Remove(el)
	delete(s.byID, id)
	return true
}

// Complete marks the task as completed. Completing a completed task is a
// successful no-op. It reports false when the id is unknown.
func (s *Store) Complete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.byID[id]
	if !ok {
		return false
	}
	el.Value.(*models.Task).Completed = true
	return true
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id int) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.byID[id]
	if !ok {
		return models.Task{}, false
	}
	return *el.Value.(*models.Task), true
}

// ListAll returns every task in insertion order.
func (s *Store) ListAll() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, s.tasks.Len())
	for el := s.tasks.Front(); el != nil; el = el.Next() {
		out = append(out, *el.Value.(*models.Task))
	}
	return out
}

// ListByCategory returns the tasks whose category equals category exactly,
// in insertion order.
func (s *Store) ListByCategory(category string) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resolve(s.byCategory[category])
}

// ListByPriority returns every task ordered by Less. Tasks with equal
// priority and due date keep their insertion order.
func (s *Store) ListByPriority() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resolve(s.byPriority)
}

func (s *Store) resolve(ids []int) []models.Task {
	out := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.task(id))
	}
	return out
}

// ListPending yields the tasks that are not completed, in insertion order.
// The sequence is evaluated lazily under the read lock, so the loop body
// must not call back into the store.
func (s *Store) ListPending() iter.Seq[models.Task] {
	return func(yield func(models.Task) bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		for el := s.tasks.Front(); el != nil; el = el.Next() {
			t := *el.Value.(*models.Task)
			if t.Completed {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Categories returns the sorted labels that have at least one live task.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for label, ids := range s.byCategory {
		if len(ids) > 0 {
			out = append(out, label)
		}
	}
	slices.Sort(out)
	return out
}

// Len returns the number of live tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.Len()
}

// NextID returns the id the next Add will assign.
func (s *Store) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}

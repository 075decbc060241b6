package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("task not found")

// minIDPrefix is the shortest ID prefix Resolve accepts
const minIDPrefix = 6

// TaskStore implements Store on top of an in-memory slice that is written
// through to a binary snapshot file after every applied mutation.
//
// Snapshot failures never reach the caller: a failed load starts an empty
// list and a failed save keeps the change in memory. Both are logged at WARN.
type TaskStore struct {
	filename string
	tasks    []Task
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.Mutex
}

// NewTaskStore creates a store backed by the snapshot at filename and loads
// it. An empty filename gives a memory-only store.
func NewTaskStore(filename string, logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	store := &TaskStore{
		filename: filename,
		tasks:    []Task{},
		logger:   logger,
		now:      time.Now,
	}
	store.load()

	return store
}

func (s *TaskStore) load() {
	if s.filename == "" {
		return
	}

	tasks, err := readSnapshot(s.filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("No task snapshot yet, starting empty", slog.String("path", s.filename))
			return
		}
		s.logger.Warn("Failed to load task snapshot, starting empty",
			slog.String("path", s.filename),
			slog.String("error", err.Error()))
		return
	}

	if tasks != nil {
		s.tasks = tasks
	}
	s.logger.Debug("Loaded task snapshot", slog.String("path", s.filename), slog.Int("tasks", len(s.tasks)))
}

func (s *TaskStore) save() error {
	if s.filename == "" {
		return nil
	}
	return writeSnapshot(s.filename, s.tasks)
}

// persist writes the snapshot after a mutation. Errors are logged only.
func (s *TaskStore) persist() {
	if err := s.save(); err != nil {
		s.logger.Warn("Failed to save task snapshot, changes kept in memory only",
			slog.String("path", s.filename),
			slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("Saved task snapshot", slog.String("path", s.filename), slog.Int("tasks", len(s.tasks)))
}

func (s *TaskStore) inRange(index int) bool {
	return index >= 0 && index < len(s.tasks)
}

// replace swaps the task at index for the result of fn and persists
func (s *TaskStore) replace(index int, fn func(Task) Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inRange(index) {
		return false
	}

	s.tasks[index] = fn(s.tasks[index]).clone()
	s.persist()
	return true
}

// Add appends a new pending task
func (s *TaskStore) Add(description, note string, priority Priority, category string, dueDate *time.Time) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := Task{
		ID:          uuid.NewString(),
		Description: description,
		Done:        false,
		Note:        note,
		Priority:    priority,
		Category:    category,
		DueDate:     dueDate,
		CreatedAt:   s.now().UTC(),
	}.clone()
	s.tasks = append(s.tasks, task)
	s.persist()

	return task.clone()
}

// AddDescription appends a pending task with default note, priority,
// category and no due date
func (s *TaskStore) AddDescription(description string) Task {
	return s.Add(description, "", PriorityMedium, DefaultCategory, nil)
}

// Remove deletes the task at index
func (s *TaskStore) Remove(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inRange(index) {
		return false
	}

	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	s.persist()
	return true
}

// Edit replaces every user-editable field of the task at index, keeping its
// completion state, ID and creation time
func (s *TaskStore) Edit(index int, description, note string, priority Priority, category string, dueDate *time.Time) bool {
	return s.replace(index, func(t Task) Task {
		return Task{
			ID:          t.ID,
			Description: description,
			Done:        t.Done,
			Note:        note,
			Priority:    priority,
			Category:    category,
			DueDate:     dueDate,
			CreatedAt:   t.CreatedAt,
		}
	})
}

// EditDescription replaces only the description of the task at index
func (s *TaskStore) EditDescription(index int, description string) bool {
	return s.replace(index, func(t Task) Task {
		t.Description = description
		return t
	})
}

// EditNote replaces only the note of the task at index
func (s *TaskStore) EditNote(index int, note string) bool {
	return s.replace(index, func(t Task) Task {
		t.Note = note
		return t
	})
}

// ToggleDone flips the completion state of the task at index
func (s *TaskStore) ToggleDone(index int) bool {
	return s.replace(index, func(t Task) Task {
		t.Done = !t.Done
		return t
	})
}

// List returns a copy of all tasks in store order
func (s *TaskStore) List() []Task {
	return s.ListFiltered(FilterAll)
}

// ListFiltered returns a new slice with the tasks matching filter, in store order
func (s *TaskStore) ListFiltered(filter Filter) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Match(t) {
			tasks = append(tasks, t.clone())
		}
	}
	return tasks
}

// Categories returns the sorted set of categories in use plus DefaultCategory
func (s *TaskStore) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{DefaultCategory: true}
	categories := []string{DefaultCategory}
	for _, t := range s.tasks {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		categories = append(categories, t.Category)
	}

	sort.Strings(categories)
	return categories
}

// Len returns the number of tasks
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tasks)
}

// Get returns the task at index
func (s *TaskStore) Get(index int) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inRange(index) {
		return Task{}, false
	}
	return s.tasks[index].clone(), true
}

// IndexOf returns the position of the task with the given ID, or -1
func (s *TaskStore) IndexOf(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Resolve maps a task identifier to its current position.
// It checks: exact ID match → ID prefix (min 6 chars)
func (s *TaskStore) Resolve(ref string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == ref {
			return i, nil
		}
	}

	if len(ref) >= minIDPrefix {
		match := -1
		count := 0
		for i, t := range s.tasks {
			if strings.HasPrefix(t.ID, ref) {
				match = i
				count++
			}
		}
		if count == 1 {
			return match, nil
		}
		if count > 1 {
			return -1, fmt.Errorf("ambiguous task ID prefix: %s (matches %d tasks)", ref, count)
		}
	}

	return -1, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
}

// Save writes the current task list to the snapshot and reports any error
func (s *TaskStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save()
}

// Path returns the snapshot location
func (s *TaskStore) Path() string {
	return s.filename
}

// Close releases the store. The snapshot is already current, so there is
// nothing to flush.
func (s *TaskStore) Close() error {
	return nil
}

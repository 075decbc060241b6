package storage

import "time"

// Store defines the operations the presentation layer may use on the task list.
// Tasks are addressed by their position in the list; Resolve maps a stable
// task ID (or a unique prefix of it) back to a position.
type Store interface {
	// Mutations. Out-of-range indices are ignored and report false.
	Add(description, note string, priority Priority, category string, dueDate *time.Time) Task
	AddDescription(description string) Task
	Remove(index int) bool
	Edit(index int, description, note string, priority Priority, category string, dueDate *time.Time) bool
	EditDescription(index int, description string) bool
	EditNote(index int, note string) bool
	ToggleDone(index int) bool

	// Reads
	List() []Task
	ListFiltered(filter Filter) []Task
	Categories() []string
	Len() int
	Get(index int) (Task, bool)
	IndexOf(id string) int
	Resolve(ref string) (int, error)

	// Lifecycle
	Save() error
	Close() error
}

package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultCategory is assigned to tasks created without a category and is
// always part of Categories().
const DefaultCategory = "General"

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidFilter   = errors.New("invalid filter")
)

// Priority is the urgency of a task, ordered from low to high
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// ValidPriorities lists all priorities in ascending order
var ValidPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Label returns the human-readable name of the priority
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

func (p Priority) String() string {
	return p.Label()
}

// IsValid reports whether p is one of the known priorities
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority converts a label (case-insensitive) or its first letter to a Priority
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	default:
		return PriorityMedium, fmt.Errorf("%w: %q (use low, medium or high)", ErrInvalidPriority, s)
	}
}

// Filter selects tasks by completion state
type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterPending:
		return "pending"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Match reports whether the task passes the filter
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Done
	case FilterCompleted:
		return t.Done
	default:
		return true
	}
}

// ParseFilter converts a filter name to a Filter. An empty name means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "pending", "todo", "open":
		return FilterPending, nil
	case "completed", "done":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("%w: %q (use all, pending or completed)", ErrInvalidFilter, s)
	}
}

// Task is a single to-do item. Tasks are values: the store replaces the
// whole Task on every edit instead of mutating it in place.
type Task struct {
	ID          string
	Description string
	Done        bool
	Note        string
	Priority    Priority
	Category    string
	DueDate     *time.Time
	CreatedAt   time.Time
}

// StatusLabel returns "Completed" or "Pending"
func (t Task) StatusLabel() string {
	if t.Done {
		return "Completed"
	}
	return "Pending"
}

// IsOverdue returns true if the task is pending and its due date is before the given day
func (t Task) IsOverdue(today time.Time) bool {
	if t.Done || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(DateOf(today))
}

// clone returns a copy that shares no pointers with t
func (t Task) clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

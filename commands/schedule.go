package commands

import (
	"time"

	"taskbook/storage"
)

// now is replaced in tests
var now = time.Now

func init() {
	Register(&Command{
		Name:        "/today",
		Description: "List pending tasks due today",
		Handler: func(args []string) bool {
			today := storage.DateOf(now())
			listTasksInRange("today", today, today.AddDate(0, 0, 1))
			return false
		},
	})

	Register(&Command{
		Name:        "/tomorrow",
		Description: "List pending tasks due tomorrow",
		Handler: func(args []string) bool {
			tomorrow := storage.DateOf(now()).AddDate(0, 0, 1)
			listTasksInRange("tomorrow", tomorrow, tomorrow.AddDate(0, 0, 1))
			return false
		},
	})

	Register(&Command{
		Name:        "/week",
		Description: "List pending tasks due this week (Monday through Sunday)",
		Handler: func(args []string) bool {
			weekStart := startOfWeek(storage.DateOf(now()))
			listTasksInRange("this week", weekStart, weekStart.AddDate(0, 0, 7))
			return false
		},
	})

	Register(&Command{
		Name:        "/overdue",
		Description: "List pending tasks whose due date has passed",
		Handler: func(args []string) bool {
			// Zero start: everything due before today
			listTasksInRange("before today", time.Time{}, storage.DateOf(now()))
			return false
		},
	})
}

// startOfWeek returns the Monday of the week containing the given date
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is day 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// listTasksInRange lists pending tasks with due dates in [start, end)
func listTasksInRange(label string, start, end time.Time) {
	printf("Tasks due %s:\n", label)

	shown := 0
	for i, t := range GetStore().ListFiltered(storage.FilterAll) {
		if t.Done || t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(start) || !t.DueDate.Before(end) {
			continue
		}
		printTask(i+1, t)
		shown++
	}

	if shown == 0 {
		printLine("  No tasks due")
	}
}

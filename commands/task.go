package commands

import (
	"fmt"
	"strings"
	"time"

	"taskbook/storage"
)

const taskRefDescription = "Task position in the full list (1, 2, 3...) or task ID prefix"

func init() {
	Register(&Command{
		Name:        "/add",
		Description: "Add a task. Optional fields are separated by |: description | note | priority | category | due date",
		Params: []Param{
			{Name: "description", Type: ParamTypeString, Description: "What needs to be done", Required: true, Field: true},
			{Name: "note", Type: ParamTypeString, Description: "Optional free-text note", Field: true},
			{Name: "priority", Type: ParamTypeString, Description: "low, medium or high (default medium)", Field: true},
			{Name: "category", Type: ParamTypeString, Description: "Category label (default General)", Field: true},
			{Name: "due_date", Type: ParamTypeString, Description: "Due date as dd/mm/yyyy, empty for none", Field: true},
		},
		Handler: func(args []string) bool {
			fields := splitFields(args)
			description := field(fields, 0)
			if description == "" {
				printLine("Usage: /add <description> [| note | priority | category | dd/mm/yyyy]")
				return false
			}

			var task storage.Task
			if len(fields) == 1 {
				task = GetStore().AddDescription(description)
			} else {
				priority, category, dueDate, err := parseTaskFields(fields, storage.PriorityMedium)
				if err != nil {
					printf("Error: %v\n", err)
					return false
				}
				task = GetStore().Add(description, field(fields, 1), priority, category, dueDate)
			}

			printf("Added task %d: %s (ID: %s)\n", GetStore().Len(), task.Description, shortID(task.ID))
			return false
		},
	})

	Register(&Command{
		Name:        "/list",
		Description: "List tasks, optionally filtered by state",
		Params: []Param{
			{Name: "filter", Type: ParamTypeString, Description: "all, pending or completed (default all)"},
		},
		Handler: func(args []string) bool {
			var name string
			if len(args) > 0 {
				name = args[0]
			}

			filter, err := storage.ParseFilter(name)
			if err != nil {
				printf("Error: %v\n", err)
				return false
			}

			// Positions always refer to the full list so they can be used with other commands
			all := GetStore().List()
			shown := 0
			printf("Tasks (%s):\n", filter)
			for i, t := range all {
				if !filter.Match(t) {
					continue
				}
				printTask(i+1, t)
				shown++
			}

			if shown == 0 {
				switch filter {
				case storage.FilterPending:
					printLine("  No pending tasks.")
				case storage.FilterCompleted:
					printLine("  No completed tasks.")
				default:
					printLine("  No tasks yet. Add one with /add <description>")
				}
			}
			return false
		},
	})

	Register(&Command{
		Name:        "/edit",
		Description: "Edit a task: /edit <task> description | note | priority | category | due date",
		Params: []Param{
			{Name: "task", Type: ParamTypeString, Description: taskRefDescription, Required: true},
			{Name: "description", Type: ParamTypeString, Description: "New description", Required: true, Field: true},
			{Name: "note", Type: ParamTypeString, Description: "New note, empty to clear", Field: true},
			{Name: "priority", Type: ParamTypeString, Description: "low, medium or high, empty to keep", Field: true},
			{Name: "category", Type: ParamTypeString, Description: "New category, empty for General", Field: true},
			{Name: "due_date", Type: ParamTypeString, Description: "New due date as dd/mm/yyyy, empty for none", Field: true},
		},
		Handler: func(args []string) bool {
			if len(args) < 2 {
				printLine("Usage: /edit <task> <description> [| note | priority | category | dd/mm/yyyy]")
				return false
			}

			index, current, ok := lookupTask(args[0])
			if !ok {
				return false
			}

			fields := splitFields(args[1:])
			description := field(fields, 0)
			if description == "" {
				printLine("Error: description cannot be empty")
				return false
			}

			priority, category, dueDate, err := parseTaskFields(fields, current.Priority)
			if err != nil {
				printf("Error: %v\n", err)
				return false
			}

			if !GetStore().Edit(index, description, field(fields, 1), priority, category, dueDate) {
				printNoTask(args[0])
				return false
			}

			printf("Updated task %d: %s\n", index+1, description)
			return false
		},
	})

	Register(&Command{
		Name:        "/rename",
		Description: "Change only the description of a task",
		Params: []Param{
			{Name: "task", Type: ParamTypeString, Description: taskRefDescription, Required: true},
			{Name: "description", Type: ParamTypeString, Description: "New description", Required: true, Rest: true},
		},
		Handler: func(args []string) bool {
			if len(args) < 2 {
				printLine("Usage: /rename <task> <new description>")
				return false
			}

			index, err := resolveTask(args[0])
			if err != nil {
				printf("Error: %v\n", err)
				return false
			}

			description := strings.TrimSpace(strings.Join(args[1:], " "))
			if !GetStore().EditDescription(index, description) {
				printNoTask(args[0])
				return false
			}

			printf("Renamed task %d to: %s\n", index+1, description)
			return false
		},
	})

	Register(&Command{
		Name:        "/note",
		Description: "Set or clear the note of a task",
		Params: []Param{
			{Name: "task", Type: ParamTypeString, Description: taskRefDescription, Required: true},
			{Name: "note", Type: ParamTypeString, Description: "Note text, omit to clear", Rest: true},
		},
		Handler: func(args []string) bool {
			if len(args) == 0 {
				printLine("Usage: /note <task> [text]")
				return false
			}

			index, err := resolveTask(args[0])
			if err != nil {
				printf("Error: %v\n", err)
				return false
			}

			note := strings.Join(args[1:], " ")
			if !GetStore().EditNote(index, note) {
				printNoTask(args[0])
				return false
			}

			if note == "" {
				printf("Cleared note for task %d\n", index+1)
			} else {
				printf("Updated note for task %d\n", index+1)
			}
			return false
		},
	})

	Register(&Command{
		Name:        "/toggle",
		Description: "Toggle a task between pending and completed",
		Params: []Param{
			{Name: "task", Type: ParamTypeString, Description: taskRefDescription, Required: true},
		},
		Handler: func(args []string) bool {
			if len(args) == 0 {
				printLine("Usage: /toggle <task>")
				return false
			}

			index, err := resolveTask(args[0])
			if err != nil {
				printf("Error: %v\n", err)
				return false
			}

			if !GetStore().ToggleDone(index) {
				printNoTask(args[0])
				return false
			}

			task, _ := GetStore().Get(index)
			printf("Task %d is now %s\n", index+1, strings.ToLower(task.StatusLabel()))
			return false
		},
	})

	Register(&Command{
		Name:        "/done",
		Description: "Mark a task as done",
		Params: []Param{
			{Name: "task", Type: ParamTypeString, Description: taskRefDescription, Required: true},
		},
		Handler: func(args []string) bool {
			setDone(args, true)
			return false
		},
	})

	Register(&Command{
		Name:        "/undone",
		Description: "Mark a task as not done",
		Params: []Param{
			{Name: "task", Type: ParamTypeString, Description: taskRefDescription, Required: true},
		},
		Handler: func(args []string) bool {
			setDone(args, false)
			return false
		},
	})

	Register(&Command{
		Name:        "/rm",
		Description: "Delete a task",
		Destructive: true,
		Params: []Param{
			{Name: "task", Type: ParamTypeString, Description: taskRefDescription, Required: true},
		},
		Handler: func(args []string) bool {
			if len(args) == 0 {
				printLine("Usage: /rm <task>")
				return false
			}

			index, current, ok := lookupTask(args[0])
			if !ok {
				return false
			}

			if !GetStore().Remove(index) {
				printNoTask(args[0])
				return false
			}

			printf("Deleted task: %s\n", current.Description)
			return false
		},
	})

	Register(&Command{
		Name:        "/categories",
		Description: "List known categories",
		Handler: func(args []string) bool {
			printLine("Categories:")
			for _, c := range GetStore().Categories() {
				printf("  %s\n", c)
			}
			return false
		},
	})
}

// setDone marks the referenced task done or not done, toggling only when needed
func setDone(args []string, done bool) {
	if len(args) == 0 {
		if done {
			printLine("Usage: /done <task>")
		} else {
			printLine("Usage: /undone <task>")
		}
		return
	}

	index, current, ok := lookupTask(args[0])
	if !ok {
		return
	}

	if current.Done != done {
		GetStore().ToggleDone(index)
	}

	if done {
		printf("Marked task %d as done ✓\n", index+1)
	} else {
		printf("Marked task %d as not done\n", index+1)
	}
}

// lookupTask resolves ref and fetches the task, printing an error on failure
func lookupTask(ref string) (int, storage.Task, bool) {
	index, err := resolveTask(ref)
	if err != nil {
		printf("Error: %v\n", err)
		return 0, storage.Task{}, false
	}

	task, ok := GetStore().Get(index)
	if !ok {
		printNoTask(ref)
		return 0, storage.Task{}, false
	}
	return index, task, true
}

func printNoTask(ref string) {
	printf("Error: no task at position %s. Use /list to see positions.\n", ref)
}

// parseTaskFields validates the optional fields of /add and /edit:
// note (1), priority (2), category (3), due date (4). Nothing is stored
// unless every field is valid.
func parseTaskFields(fields []string, defaultPriority storage.Priority) (storage.Priority, string, *time.Time, error) {
	priority := defaultPriority
	if p := field(fields, 2); p != "" {
		parsed, err := storage.ParsePriority(p)
		if err != nil {
			return priority, "", nil, err
		}
		priority = parsed
	}

	category := field(fields, 3)
	if category == "" {
		category = storage.DefaultCategory
	}

	dueDate, err := storage.ParseDueDate(field(fields, 4))
	if err != nil {
		return priority, "", nil, err
	}

	return priority, category, dueDate, nil
}

// printTask prints one task line, plus its note when present
func printTask(position int, t storage.Task) {
	status := "[ ]"
	if t.Done {
		status = "[✓]"
	}

	extras := []string{t.Priority.Label(), t.Category}
	if t.DueDate != nil {
		due := "due " + storage.FormatDueDate(t.DueDate)
		if t.IsOverdue(now()) {
			due += ", overdue"
		}
		extras = append(extras, due)
	}

	printf("  %d. %s %s (%s) [%s]\n", position, status, t.Description, strings.Join(extras, ", "), shortID(t.ID))
	if t.Note != "" {
		printf("       note: %s\n", singleLine(t.Note))
	}
}

// shortID is the display form of a task ID
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// formatTaskCount renders "1 task" / "n tasks"
func formatTaskCount(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

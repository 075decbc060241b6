package commands

import (
	"sort"
	"strings"
)

var debugMode bool

// helpGroups orders the /help listing; commands not named here go under "Other"
var helpGroups = []struct {
	title string
	names []string
}{
	{"Tasks", []string{"/add", "/list", "/edit", "/rename", "/note", "/toggle", "/done", "/undone", "/rm", "/categories"}},
	{"Due dates", []string{"/today", "/tomorrow", "/week", "/overdue"}},
	{"Files", []string{"/export"}},
	{"Assistant", []string{"/chat", "/clearchat", "/usage", "/debug"}},
}

func init() {
	Register(&Command{
		Name:        "/help",
		Description: "Show available commands",
		Hidden:      true,
		Handler: func(args []string) bool {
			printHelp()
			return false
		},
	})

	for _, name := range []string{"/quit", "/exit"} {
		Register(&Command{
			Name:        name,
			Description: "Exit Taskbook",
			Hidden:      true,
			Handler: func(args []string) bool {
				printLine("Goodbye!")
				return true
			},
		})
	}

	Register(&Command{
		Name:        "/debug",
		Description: "Toggle showing the commands the assistant runs",
		Hidden:      true,
		Handler: func(args []string) bool {
			debugMode = !debugMode
			if debugMode {
				printLine("Debug mode: ON")
			} else {
				printLine("Debug mode: OFF")
			}
			return false
		},
	})
}

// IsDebugMode returns whether debug mode is enabled
func IsDebugMode() bool {
	return debugMode
}

func printHelp() {
	listed := map[string]bool{"/help": true, "/quit": true, "/exit": true}

	for _, group := range helpGroups {
		printf("%s:\n", group.title)
		for _, name := range group.names {
			if cmd := GetByName(name); cmd != nil {
				printf("  %-12s %s\n", cmd.Name, cmd.Description)
				listed[cmd.Name] = true
			}
		}
	}

	var other []*Command
	for _, cmd := range List() {
		if !listed[cmd.Name] {
			other = append(other, cmd)
		}
	}
	if len(other) > 0 {
		sort.Slice(other, func(i, j int) bool { return other[i].Name < other[j].Name })
		printLine("Other:")
		for _, cmd := range other {
			printf("  %-12s %s\n", cmd.Name, cmd.Description)
		}
	}

	printLine()
	printLine("Tasks are referred to by their /list position or ID prefix.")
	printLine("Separate optional fields with |, e.g. /add Pay rent | | high | Home | 05/11/2026")
	printLine(strings.Repeat("-", 40))
	printLine("Plain text (no leading /) is sent to the assistant. /quit exits.")
}

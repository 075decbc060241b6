package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"taskbook/llm"
	"taskbook/storage"
)

// ParamType defines the type of a command parameter
type ParamType string

const (
	ParamTypeString ParamType = "string"
)

// fieldSeparator splits multi-field arguments such as "/add desc | note | high"
const fieldSeparator = "|"

// Param defines a parameter for a command
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Field       bool // if true, passed as a "|"-separated field after the positional params
	Rest        bool // if true, receives the rest of the input with its whitespace intact
}

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Handler     func(args []string) bool // returns true to quit
	Params      []Param                  // parameter definitions for tool generation
	Hidden      bool                     // if true, exclude from tool generation
	Destructive bool                     // if true, requires confirmation when called via tool
}

var (
	registry  = make(map[string]*Command)
	store     storage.Store
	llmClient llm.Client
	out       io.Writer = os.Stdout
	exportDir           = "."
)

// Register adds a command to the registry
func Register(cmd *Command) {
	registry[strings.ToLower(cmd.Name)] = cmd
}

// SetStore sets the task store for commands to use
func SetStore(s storage.Store) {
	store = s
}

// GetStore returns the task store
func GetStore() storage.Store {
	return store
}

// SetLLMClient sets the LLM client used by /chat
func SetLLMClient(c llm.Client) {
	llmClient = c
}

// GetLLMClient returns the LLM client
func GetLLMClient() llm.Client {
	return llmClient
}

// SetOutput redirects command output (default os.Stdout)
func SetOutput(w io.Writer) {
	out = w
}

// SetExportDir sets the directory relative export paths are resolved against
func SetExportDir(dir string) {
	exportDir = dir
}

// Execute runs a command by name with arguments
func Execute(input string) (bool, error) {
	name, rest := nextToken(input)
	if name == "" {
		return false, fmt.Errorf("empty command")
	}

	cmdName := strings.ToLower(name)
	cmd, exists := registry[cmdName]
	if !exists {
		return false, fmt.Errorf("unknown command: %s", cmdName)
	}

	return cmd.Handler(splitArgs(cmd, rest)), nil
}

// splitArgs tokenizes the input after the command name. Commands whose
// params include a Field or Rest param get their leading positional params
// as tokens and everything after them as one final argument, so text such
// as multi-line notes reaches the handler unchanged.
func splitArgs(cmd *Command, rest string) []string {
	positional := -1
	for i, p := range cmd.Params {
		if p.Field || p.Rest {
			positional = i
			break
		}
	}
	if positional < 0 {
		return strings.Fields(rest)
	}

	args := []string{}
	for i := 0; i < positional; i++ {
		var tok string
		tok, rest = nextToken(rest)
		if tok == "" {
			return args
		}
		args = append(args, tok)
	}

	if rest = strings.TrimLeftFunc(rest, unicode.IsSpace); strings.TrimSpace(rest) != "" {
		args = append(args, rest)
	}
	return args
}

// nextToken returns the first whitespace-delimited token of s and what follows it
func nextToken(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

// ExecuteWithOutput runs a command and returns its captured output
func ExecuteWithOutput(input string) (quit bool, output string, err error) {
	output = captureOutput(func() {
		quit, err = Execute(input)
	})
	return quit, output, err
}

// captureOutput collects everything commands print while fn runs
func captureOutput(fn func()) string {
	var buf bytes.Buffer
	prev := out
	out = &buf
	defer func() { out = prev }()

	fn()

	return strings.TrimSpace(buf.String())
}

func printf(format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}

func printLine(a ...any) {
	fmt.Fprintln(out, a...)
}

// List returns all registered commands
func List() []*Command {
	cmds := make([]*Command, 0, len(registry))
	for _, cmd := range registry {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// GetByName returns a command by name (with or without leading /)
func GetByName(name string) *Command {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return registry[strings.ToLower(name)]
}

// GenerateToolDefinitions creates Tool definitions from registered commands
func GenerateToolDefinitions() []*llm.Tool {
	var tools []*llm.Tool

	for _, cmd := range registry {
		if cmd.Hidden {
			continue
		}

		// Build properties and required arrays from Params
		properties := make(map[string]*llm.ToolProperty)
		var required []string

		for _, p := range cmd.Params {
			properties[p.Name] = &llm.ToolProperty{
				Type:        string(p.Type),
				Description: p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}

		tool := &llm.Tool{
			Name:        strings.TrimPrefix(cmd.Name, "/"),
			Description: cmd.Description,
		}
		if cmd.Destructive {
			tool.Description += " (destructive: only call when the user explicitly asked for it)"
		}

		// Only add Parameters if there are any
		if len(properties) > 0 {
			tool.Parameters = &llm.ToolParameters{
				Type:       "object",
				Properties: properties,
				Required:   required,
			}
		}

		tools = append(tools, tool)
	}

	return tools
}

// splitFields joins args back together and splits them on "|".
// Each field is trimmed; empty fields are kept so positions stay meaningful.
func splitFields(args []string) []string {
	raw := strings.Join(args, " ")
	fields := strings.Split(raw, fieldSeparator)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// field returns fields[i], or "" when absent
func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// minIDRefLength is the shortest reference that may be an ID prefix
const minIDRefLength = 6

// resolveTask maps a task reference to a store index. Numbers are 1-based
// positions as shown by /list. A number that is not a valid position but is
// long enough to be an ID prefix is looked up as one, since IDs can start
// with digits only. Out-of-range positions are passed through so the store
// decides. Anything else is looked up as a task ID or ID prefix.
func resolveTask(ref string) (int, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return GetStore().Resolve(ref)
	}

	if (n < 1 || n > GetStore().Len()) && len(ref) >= minIDRefLength {
		if index, err := GetStore().Resolve(ref); err == nil {
			return index, nil
		}
	}
	return n - 1, nil
}

// exportPath resolves a user-given export path against the export directory
func exportPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(exportDir, path)
}

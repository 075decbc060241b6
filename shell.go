package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"taskbook/commands"
)

func (a *app) runShell() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     a.cfg.HistoryFile,
		AutoComplete:    newCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return fmt.Errorf("start shell: %w", err)
	}
	defer rl.Close()

	fmt.Println("Welcome to Taskbook! Type /help for available commands.")
	if a.client == nil {
		fmt.Println("(Assistant disabled: set GEMINI_API_KEY to chat in plain language.)")
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		quit, err := a.handleLine(line)
		if err != nil {
			fmt.Printf("%v. Type /help for available commands.\n", err)
		}
		if quit {
			break
		}
	}

	return nil
}

// errCommandFailed reports a command that printed an error for `taskbook exec`
var errCommandFailed = errors.New("command failed")

// handleLine runs one line of shell input. Plain text goes to the assistant;
// the output of direct commands is remembered as assistant context.
func (a *app) handleLine(line string) (bool, error) {
	quit, _, err := a.runLine(line)
	return quit, err
}

func (a *app) runLine(line string) (bool, string, error) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false, "", nil
	}

	if !strings.HasPrefix(input, "/") {
		input = "/chat " + input
	}

	quit, output, err := commands.ExecuteWithOutput(input)
	if err != nil {
		return false, "", err
	}
	if output != "" {
		fmt.Println(output)
	}

	if !isChatCommand(input) {
		commands.AddCommandContext(input, output)
	}
	return quit, output, nil
}

// execLine runs a single command for `taskbook exec`. Output starting with
// "Error" is reported as errCommandFailed so the exit status reflects it.
func (a *app) execLine(line string) error {
	_, output, err := a.runLine(line)
	if err != nil {
		return err
	}
	if strings.HasPrefix(output, "Error") {
		return errCommandFailed
	}
	return nil
}

func isChatCommand(input string) bool {
	name := strings.ToLower(strings.Fields(input)[0])
	return name == "/chat" || name == "/clearchat" || name == "/usage"
}

// newCompleter offers every registered command name for tab completion
func newCompleter() *readline.PrefixCompleter {
	cmds := commands.List()
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name < cmds[j].Name
	})

	items := make([]readline.PrefixCompleterInterface, 0, len(cmds))
	for _, cmd := range cmds {
		items = append(items, readline.PcItem(cmd.Name))
	}
	return readline.NewPrefixCompleter(items...)
}

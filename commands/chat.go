package commands

import (
	"context"
	"fmt"
	"strings"

	"taskbook/llm"
)

// chatHistory stores the conversation history for the /chat command
var chatHistory []*llm.Message

// Session usage tracking
var (
	sessionInputTokens  int64
	sessionOutputTokens int64
	sessionPromptCount  int
)

// maxCommandContextEntries limits how many command context entries to keep
const maxCommandContextEntries = 10

const commandContextPrefix = "User ran:"

// AddCommandContext adds a direct command and its output to the chat history
// so the LLM has context about recent user actions.
func AddCommandContext(command string, output string) {
	contextMsg := fmt.Sprintf("%s %s\nOutput: %s", commandContextPrefix, command, output)
	chatHistory = append(chatHistory, &llm.Message{
		Role:    llm.RoleSystem,
		Content: contextMsg,
	})

	trimCommandContext()
}

// trimCommandContext drops the oldest command context entries beyond the limit
func trimCommandContext() {
	var contextCount int
	for _, msg := range chatHistory {
		if isCommandContext(msg) {
			contextCount++
		}
	}

	if contextCount > maxCommandContextEntries {
		toRemove := contextCount - maxCommandContextEntries
		var newHistory []*llm.Message
		for _, msg := range chatHistory {
			if toRemove > 0 && isCommandContext(msg) {
				toRemove--
				continue
			}
			newHistory = append(newHistory, msg)
		}
		chatHistory = newHistory
	}
}

func isCommandContext(msg *llm.Message) bool {
	return msg.Role == llm.RoleSystem && strings.HasPrefix(msg.Content, commandContextPrefix)
}

func init() {
	Register(&Command{
		Name:        "/clearchat",
		Description: "Clear the chat conversation history",
		Hidden:      true,
		Handler: func(args []string) bool {
			chatHistory = nil
			printLine("Chat history cleared.")
			return false
		},
	})

	Register(&Command{
		Name:        "/usage",
		Description: "Show session token usage statistics",
		Hidden:      true,
		Handler: func(args []string) bool {
			if sessionPromptCount == 0 {
				printLine("No chat usage in this session yet.")
				return false
			}

			printLine("Session Usage Statistics:")
			printf("  Prompts:       %d\n", sessionPromptCount)
			printf("  Input tokens:  %d\n", sessionInputTokens)
			printf("  Output tokens: %d\n", sessionOutputTokens)
			printf("  Total tokens:  %d\n", sessionInputTokens+sessionOutputTokens)
			return false
		},
	})

	Register(&Command{
		Name:        "/chat",
		Description: "Ask the assistant to manage your tasks in plain language",
		Hidden:      true, // Exclude from tool generation
		Params: []Param{
			{Name: "message", Type: ParamTypeString, Description: "The message to send to the assistant", Required: true, Rest: true},
		},
		Handler: func(args []string) bool {
			if len(args) == 0 {
				printLine("Usage: /chat <message>")
				return false
			}

			client := GetLLMClient()
			if client == nil {
				printLine("Error: assistant not available. Set GEMINI_API_KEY (environment or .env file).")
				return false
			}

			message := strings.Join(args, " ")
			response, newHistory, err := client.ChatWithTools(context.Background(), message, chatHistory, GenerateToolDefinitions(), executeTool)
			if err != nil {
				printf("Error: %v\n", err)
				return false
			}

			chatHistory = newHistory

			printLine(response.Text)
			printUsageStats(response)
			return false
		},
	})
}

// executeTool runs the command the model asked for and returns its output
func executeTool(name string, fnArgs map[string]any) string {
	cmd := GetByName(name)
	if cmd == nil || cmd.Hidden {
		return fmt.Sprintf("Error: unknown tool %s", name)
	}

	cmdStr := cmd.Name
	if cmdArgs := convertArgsToSlice(cmd, fnArgs); len(cmdArgs) > 0 {
		cmdStr += " " + strings.Join(cmdArgs, " ")
	}

	if IsDebugMode() {
		printf("[tool] %s\n", cmdStr)
	}

	_, output, err := ExecuteWithOutput(cmdStr)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return output
}

// printUsageStats displays token usage and updates session totals
func printUsageStats(response *llm.Response) {
	sessionInputTokens += response.InputTokens
	sessionOutputTokens += response.OutputTokens
	sessionPromptCount++

	// Only display if we have token data
	if response.TokensUsed == 0 && response.InputTokens == 0 && response.OutputTokens == 0 {
		return
	}

	printf("\n[Tokens: %d in / %d out]\n", response.InputTokens, response.OutputTokens)
}

// convertArgsToSlice converts function call arguments to command args in
// the order of the command's Params. Positional params come first; Field
// params are joined with " | " so multi-field commands receive them in order.
func convertArgsToSlice(cmd *Command, args map[string]any) []string {
	var result []string
	var fields []string

	for _, p := range cmd.Params {
		val, ok := args[p.Name]
		str := ""
		if ok && val != nil {
			str = fmt.Sprintf("%v", val)
		}

		if p.Field {
			fields = append(fields, str)
			continue
		}
		if str != "" {
			result = append(result, str)
		}
	}

	// Drop trailing empty fields so defaults apply
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	if len(fields) > 0 {
		result = append(result, strings.Join(fields, " "+fieldSeparator+" "))
	}

	return result
}

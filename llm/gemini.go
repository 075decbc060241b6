package llm

import (
	"context"
	"os"
	"strings"

	"google.golang.org/genai"
)

// maxToolRounds bounds the function-calling loop of a single ChatWithTools call
const maxToolRounds = 10

type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a client using GEMINI_API_KEY. A nil config uses DefaultConfig.
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiClient{client: client, config: config}, nil
}

func (g *GeminiClient) ChatWithTools(ctx context.Context, message string, history []*Message, tools []*Tool, executor ToolExecutor) (*Response, []*Message, error) {
	if strings.TrimSpace(message) == "" {
		return nil, history, ErrEmptyPrompt
	}

	system := getToolSystemPrompt()
	if g.config.System != "" {
		system = g.config.System + "\n\n" + system
	}

	genConfig := &genai.GenerateContentConfig{
		MaxOutputTokens: g.config.MaxTokens,
		Temperature:     genai.Ptr(g.config.Temperature),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}
	if decls := toFunctionDeclarations(tools); len(decls) > 0 {
		genConfig.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	// Build conversation contents from history plus new message
	contents := toContents(history)
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	newHistory := append(append([]*Message{}, history...), &Message{Role: RoleUser, Content: message})

	usage := &Response{}

	// Tool calling loop
	for round := 0; round < maxToolRounds; round++ {
		result, err := g.client.Models.GenerateContent(ctx, g.config.Model, contents, genConfig)
		if err != nil {
			return nil, newHistory, err
		}

		if result.UsageMetadata != nil {
			usage.TokensUsed += int64(result.UsageMetadata.TotalTokenCount)
			usage.InputTokens += int64(result.UsageMetadata.PromptTokenCount)
			usage.OutputTokens += int64(result.UsageMetadata.CandidatesTokenCount)
		}

		if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
			return nil, newHistory, ErrNoResponse
		}

		candidate := result.Candidates[0]

		// Check for function calls
		var functionCalls []*genai.FunctionCall
		var textParts []string

		for _, part := range candidate.Content.Parts {
			if part.FunctionCall != nil {
				functionCalls = append(functionCalls, part.FunctionCall)
			}
			if part.Text != "" {
				textParts = append(textParts, part.Text)
			}
		}

		// If no function calls, return the text response
		if len(functionCalls) == 0 {
			text := strings.Join(textParts, "")
			newHistory = append(newHistory, &Message{Role: RoleAssistant, Content: text})

			usage.Text = text
			usage.FinishReason = string(candidate.FinishReason)
			return usage, newHistory, nil
		}

		// Add model's response to the working contents
		contents = append(contents, candidate.Content)

		// Execute function calls and build responses
		var functionResponses []*genai.Part
		for _, fc := range functionCalls {
			output := executor(fc.Name, fc.Args)
			functionResponses = append(functionResponses, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     fc.Name,
					Response: map[string]any{"result": output},
				},
			})
		}

		contents = append(contents, &genai.Content{
			Role:  string(genai.RoleUser),
			Parts: functionResponses,
		})
	}

	return nil, newHistory, ErrTooManyCalls
}

func (g *GeminiClient) Close() error {
	// The genai client holds no resources that need releasing
	return nil
}

// toFunctionDeclarations converts tools to Gemini function declarations
func toFunctionDeclarations(tools []*Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		decl := &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
		}

		if tool.Parameters != nil && len(tool.Parameters.Properties) > 0 {
			properties := make(map[string]*genai.Schema, len(tool.Parameters.Properties))
			for name, prop := range tool.Parameters.Properties {
				properties[name] = &genai.Schema{
					Type:        schemaType(prop.Type),
					Description: prop.Description,
				}
			}
			decl.Parameters = &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   tool.Parameters.Required,
			}
		}

		decls = append(decls, decl)
	}
	return decls
}

func schemaType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// toContents converts message history to Gemini contents.
// Gemini has no system role inside a conversation, so system notes are sent
// as user turns.
func toContents(history []*Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		case RoleSystem:
			contents = append(contents, genai.NewContentFromText("[context] "+msg.Content, genai.RoleUser))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return contents
}

func getToolSystemPrompt() string {
	return `You are a helpful task management assistant for Taskbook.

IMPORTANT RULES:
1. When a user refers to a task by its description, FIRST call "list" to find its position or ID, then use that.
2. Tasks are referred to by their position in the full list (1, 2, 3...) or by their ID prefix.
3. Positions change when tasks are removed; prefer IDs when doing several changes in a row.
4. Dates are written dd/mm/yyyy. Priorities are low, medium or high.
5. NEVER ask the user for a position or ID. Always look it up using available tools.

EXAMPLES:
- "what is left to do?" -> call list with filter "pending"
- "mark the milk task done" -> call list, find the task, call done with its ID`
}

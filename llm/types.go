package llm

// Roles used in Message history
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Response struct {
	Text         string
	FinishReason string
	TokensUsed   int64
	InputTokens  int64
	OutputTokens int64
}

type Config struct {
	Model       string
	MaxTokens   int32
	Temperature float32
	System      string
}

func DefaultConfig() *Config {
	return &Config{
		Model:       "gemini-2.5-flash",
		MaxTokens:   8192,
		Temperature: 0.7,
		System:      "",
	}
}

// Message is one turn of conversation history
type Message struct {
	Role    string
	Content string
}

// Tool describes a command the model may call
type Tool struct {
	Name        string
	Description string
	Parameters  *ToolParameters
}

// ToolParameters is the JSON-schema style object describing a tool's arguments
type ToolParameters struct {
	Type       string
	Properties map[string]*ToolProperty
	Required   []string
}

type ToolProperty struct {
	Type        string
	Description string
}

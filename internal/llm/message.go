package llm

// Role follows the chat-completion convention.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Image detail levels accepted by the vision models.
const (
	DetailAuto = "auto"
	DetailLow  = "low"
	DetailHigh = "high"
)

// Message is one conversation turn. ImageURL is only honored on user
// turns and is usually a data: URL.
type Message struct {
	Role        Role
	Text        string
	ImageURL    string
	ImageDetail string
}

// Request describes a single chat completion.
type Request struct {
	Messages    []Message
	MaxTokens   int64
	Temperature float64

	// JSON asks the model for a single JSON object reply.
	JSON bool
}

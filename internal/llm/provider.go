package llm

import "context"

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive free-form text.
// Generated item sets are plain prose; the item markers inside the
// text ("Item N:", "Question N:") are the only structure downstream
// code relies on.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its text output.
	// Blocks until the provider responds or the context is done.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. For single-turn generation
	// (the only case in ItemForge), this contains one user message.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	// Output may be truncated at this limit; callers must tolerate
	// responses that stop before the requested item range is complete.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the LLM's output.
type Response struct {
	// Text is the raw generated text, unparsed and unvalidated.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to StopEnd or StopMaxTokens.
	StopReason string
}

// Normalized stop reasons across providers.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider is the capability boundary to a language model backend. One method
// does the work; anything that can turn a prompt and a document into raw text
// can stand in, including the deterministic stubs used in tests.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends the instruction prompt and the document text to the
	// model and returns its raw textual answer.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest carries one analysis call
type CompletionRequest struct {
	// SystemPrompt pins the output contract (JSON only)
	SystemPrompt string

	// Prompt is the checklist instruction text built from the template
	Prompt string

	// DocumentText is the extracted text under analysis
	DocumentText string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompletionResponse is the model's raw answer
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "groq", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (Groq, Ollama, proxies)
	BaseURL string

	// Timeout per API request
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   60 * time.Second,
		MaxTokens: 8000,
	}
}

// ProviderError wraps a failed or timed-out model call
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// userContent joins the instruction prompt and the document text the way
// every provider sends them.
func userContent(req CompletionRequest) string {
	return req.Prompt + "\n\n" + req.DocumentText
}

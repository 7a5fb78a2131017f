// Package driver defines the provider-agnostic completion interface and its
// wire types. Concrete providers live in subpackages.
package driver

import "context"

// Driver is the interface a completion provider must implement.
type Driver interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *Request) (*Response, error)
	// Name returns the driver identifier (e.g. "openai").
	Name() string
}

// Message is a single role-tagged message in the exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles understood by chat-completion providers.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Request is a provider-agnostic completion request. Sampling fields are
// pointers so zero values can be distinguished from "not set".
type Request struct {
	Model            string
	Messages         []Message
	Temperature      *float64
	MaxTokens        *int
	PresencePenalty  *float64
	FrequencyPenalty *float64
}

// Usage contains token usage statistics.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a provider-agnostic completion response.
type Response struct {
	Text         string
	FinishReason string
	Usage        *Usage
}

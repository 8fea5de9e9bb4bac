package ai

import "context"

// Provider is the interface every LLM backend implements.
type Provider interface {
	// SendMessage sends a chat request and returns the completed response.
	// Returns an error if the call fails, the context is cancelled, or the
	// response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// IsStopMessage reports whether the response ends the turn, i.e. the
	// model produced no tool calls and has nothing more to add.
	IsStopMessage(message *ChatResponse) bool
}

// Package memory defines how a session's conversation history is stored.
// The in-process implementation lives in
// [github.com/leofalp/mathagent/providers/memory/inmemory].
package memory

import (
	"context"

	"github.com/leofalp/mathagent/providers/ai"
)

// Provider stores the ordered message history of one conversation.
// Read methods return errors so that remote stores can report failures.
type Provider interface {
	AppendMessage(ctx context.Context, message *ai.Message)
	AllMessages(ctx context.Context) ([]ai.Message, error)
	Count(ctx context.Context) (int, error)
	ClearMessages(ctx context.Context)
}

// Package inmemory keeps conversation history in process memory. It is safe
// for concurrent use and does not survive restarts.
package inmemory

import (
	"context"
	"sync"

	"github.com/leofalp/mathagent/providers/ai"
	"github.com/leofalp/mathagent/providers/memory"
	"github.com/leofalp/mathagent/providers/observability"
)

// ArrayMemory is a slice-backed message log guarded by a RWMutex.
type ArrayMemory struct {
	mu       sync.RWMutex
	messages []ai.Message
}

var _ memory.Provider = (*ArrayMemory)(nil)

// New returns an empty ArrayMemory.
func New() *ArrayMemory {
	return &ArrayMemory{messages: []ai.Message{}}
}

// AppendMessage stores a copy of message. A nil message is ignored.
// The append is recorded on the span in ctx, if any.
func (m *ArrayMemory) AppendMessage(ctx context.Context, message *ai.Message) {
	if message == nil {
		return
	}

	stored := *message
	if len(message.ToolCalls) > 0 {
		stored.ToolCalls = append([]ai.ToolCall(nil), message.ToolCalls...)
	}

	m.mu.Lock()
	m.messages = append(m.messages, stored)
	total := len(m.messages)
	m.mu.Unlock()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrMemoryTotalMessages, total),
		)
	}
}

// AllMessages returns a copy of the history in insertion order.
// The error is always nil.
func (m *ArrayMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ai.Message, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

// Count returns the number of stored messages. The error is always nil.
func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages), nil
}

// ClearMessages drops the history but keeps the backing array.
func (m *ArrayMemory) ClearMessages(ctx context.Context) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear)
	}

	m.mu.Lock()
	m.messages = m.messages[:0]
	m.mu.Unlock()
}

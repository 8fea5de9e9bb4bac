package agent

import (
	"time"

	"github.com/leofalp/mathagent/core/cost"
	"github.com/leofalp/mathagent/providers/ai"
)

// EventType identifies what happened during a run.
type EventType string

const (
	// EventContent is text the model produced alongside tool calls.
	EventContent EventType = "content"

	// EventToolCall is emitted before a tool runs.
	EventToolCall EventType = "tool_call"

	// EventToolResult carries the tool output, or the ai.ToolResult error
	// envelope sent to the model when the call failed.
	EventToolResult EventType = "tool_result"

	// EventFinalAnswer is the last event of a successful run.
	EventFinalAnswer EventType = "final_answer"

	// EventError ends the run; the same error is yielded alongside it.
	EventError EventType = "error"
)

// Event is one step of a run.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Author    string    `json:"author"`
	Iteration int       `json:"iteration"`
	Timestamp time.Time `json:"timestamp"`

	Content string `json:"content,omitempty"`

	ToolName   string `json:"tool_name,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolInput  string `json:"tool_input,omitempty"`
	ToolOutput string `json:"tool_output,omitempty"`
	// ToolError is one of the ai.ToolError* kinds when the call failed.
	ToolError string `json:"tool_error,omitempty"`

	Usage *ai.Usage `json:"usage,omitempty"`
	// Summary is set on the final answer.
	Summary *cost.Summary `json:"summary,omitempty"`

	Err error `json:"-"`
}

// IsFinalResponse reports whether the event carries the agent's answer.
func (e Event) IsFinalResponse() bool {
	return e.Type == EventFinalAnswer
}

package ai

import (
	"encoding/json"

	"github.com/leofalp/mathagent/internal/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`
	Messages         []Message         `json:"messages"`                // Conversation history, system prompt excluded
	SystemPrompt     string            `json:"system_prompt,omitempty"` // Agent instruction
	Tools            []ToolDescription `json:"tools,omitempty"`
	ToolChoice       *ToolChoice       `json:"tool_choice,omitempty"`
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`
}

// ToolDescription advertises a callable tool to the model.
type ToolDescription struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
	Output      *jsonschema.Schema `json:"output,omitempty"`
}

// ToolChoice constrains which tools the model may call.
type ToolChoice struct {
	// Mode is "auto" (default), "none" or "required".
	Mode string `json:"mode,omitempty"`
	// Allowed restricts "required" to these tool names.
	Allowed []string `json:"allowed,omitempty"`
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For role=assistant requesting tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // For role=tool, links to the tool call being answered
	Name       string     `json:"name,omitempty"`         // For role=tool, name of the tool that produced the content
}

type GenerationConfig struct {
	Temperature     *float32 `json:"temperature,omitempty"`
	MaxOutputTokens int32    `json:"max_output_tokens,omitempty"`
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string     `json:"id"`
	Model        string     `json:"model"`
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"` // "stop", "tool_calls", "length", "content_filter", "error"
	Usage        *Usage     `json:"usage,omitempty"`
	Refusal      string     `json:"refusal,omitempty"` // Block reason when the prompt was rejected
}

// ToolCall represents a function/tool call request from the LLM
type ToolCall struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON object
}

// Tool result error kinds.
const (
	ToolErrorNotFound        = "tool_not_found"
	ToolErrorInvalidInput    = "invalid_input"
	ToolErrorExecutionFailed = "tool_execution_failed"
)

// ToolResult is the envelope used to report a tool failure to the model.
// Successful calls send the tool output as is.
type ToolResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`   // One of the ToolError* kinds
	Message string `json:"message,omitempty"` // Human-readable description
}

// NewToolResultError creates a failed tool result.
func NewToolResultError(kind, message string) ToolResult {
	return ToolResult{Success: false, Error: kind, Message: message}
}

// ToJSON converts the ToolResult to a JSON string.
func (tr ToolResult) ToJSON() (string, error) {
	b, err := json.Marshal(tr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

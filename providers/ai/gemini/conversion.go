package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/leofalp/mathagent/core/parse"
	"github.com/leofalp/mathagent/providers/ai"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// buildConfig converts the request's system prompt, tools, tool choice and
// generation settings to a genai config.
func buildConfig(request ai.ChatRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	system := request.SystemPrompt
	for _, msg := range request.Messages {
		if msg.Role == ai.RoleSystem && msg.Content != "" {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		}
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	if len(request.Tools) > 0 {
		declarations := make([]*genai.FunctionDeclaration, 0, len(request.Tools))
		for _, t := range request.Tools {
			declaration := &genai.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
			}
			if t.Parameters != nil {
				declaration.ParametersJsonSchema = t.Parameters
			}
			declarations = append(declarations, declaration)
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
		cfg.ToolConfig = buildToolConfig(request.ToolChoice)
	}

	if gc := request.GenerationConfig; gc != nil {
		cfg.Temperature = gc.Temperature
		cfg.MaxOutputTokens = gc.MaxOutputTokens
	}

	return cfg
}

// buildToolConfig maps ai.ToolChoice modes to function calling modes.
// Returns nil for the default "auto" behaviour.
func buildToolConfig(choice *ai.ToolChoice) *genai.ToolConfig {
	if choice == nil {
		return nil
	}

	fc := &genai.FunctionCallingConfig{}
	switch choice.Mode {
	case "none":
		fc.Mode = genai.FunctionCallingConfigModeNone
	case "required":
		fc.Mode = genai.FunctionCallingConfigModeAny
		fc.AllowedFunctionNames = choice.Allowed
	default:
		return nil
	}
	return &genai.ToolConfig{FunctionCallingConfig: fc}
}

// buildContents converts the conversation to genai contents.
// Role mapping: user -> user, assistant -> model, tool -> user with a
// functionResponse part. System messages go to the system instruction.
// Consecutive tool results are merged into a single user turn.
func buildContents(messages []ai.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			continue

		case ai.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  roleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})

		case ai.RoleAssistant:
			content := &genai.Content{Role: roleModel}
			if msg.Content != "" {
				content.Parts = append(content.Parts, &genai.Part{Text: msg.Content})
			}
			for _, call := range msg.ToolCalls {
				args, err := parse.ParseStringAs[map[string]any](orEmptyObject(call.Function.Arguments))
				if err != nil {
					return nil, fmt.Errorf("gemini: arguments of tool call %q: %w", call.Function.Name, err)
				}
				content.Parts = append(content.Parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   call.ID,
					Name: call.Function.Name,
					Args: args,
				}})
			}
			if len(content.Parts) > 0 {
				contents = append(contents, content)
			}

		case ai.RoleTool:
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       msg.ToolCallID,
				Name:     msg.Name,
				Response: toolResponse(msg.Content),
			}}
			if last := len(contents) - 1; last >= 0 && contents[last].Role == roleUser && isFunctionResponse(contents[last]) {
				contents[last].Parts = append(contents[last].Parts, part)
			} else {
				contents = append(contents, &genai.Content{Role: roleUser, Parts: []*genai.Part{part}})
			}

		default:
			return nil, fmt.Errorf("gemini: unsupported message role %q", msg.Role)
		}
	}

	return contents, nil
}

// toolResponse wraps tool output in the object Gemini expects. JSON objects
// pass through; anything else goes under "output".
func toolResponse(content string) map[string]any {
	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return map[string]any{"output": content}
	}
	if object, ok := decoded.(map[string]any); ok {
		return object
	}
	return map[string]any{"output": decoded}
}

func isFunctionResponse(content *genai.Content) bool {
	for _, part := range content.Parts {
		if part.FunctionResponse == nil {
			return false
		}
	}
	return len(content.Parts) > 0
}

func orEmptyObject(arguments string) string {
	if strings.TrimSpace(arguments) == "" {
		return "{}"
	}
	return arguments
}

// responseToGeneric converts a genai response to ai.ChatResponse.
func responseToGeneric(resp *genai.GenerateContentResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{}
	if resp == nil {
		result.FinishReason = "error"
		return result
	}

	result.Id = resp.ResponseID
	result.Model = resp.ModelVersion

	if u := resp.UsageMetadata; u != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
		result.Refusal = string(pf.BlockReason)
		result.FinishReason = "content_filter"
		return result
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		result.FinishReason = "stop"
		return result
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			switch {
			case part == nil || part.Thought:
			case part.FunctionCall != nil:
				result.ToolCalls = append(result.ToolCalls, toolCallToGeneric(part.FunctionCall))
			case part.Text != "":
				text.WriteString(part.Text)
			}
		}
	}
	result.Content = text.String()

	result.FinishReason = mapFinishReason(string(candidate.FinishReason))
	if len(result.ToolCalls) > 0 && result.FinishReason == "stop" {
		result.FinishReason = "tool_calls"
	}

	return result
}

// toolCallToGeneric converts a function call; calls without an ID get a
// generated one so tool results can be correlated.
func toolCallToGeneric(call *genai.FunctionCall) ai.ToolCall {
	id := call.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}

	args := "{}"
	if len(call.Args) > 0 {
		if encoded, err := json.Marshal(call.Args); err == nil {
			args = string(encoded)
		}
	}

	return ai.ToolCall{
		ID:   id,
		Type: "function",
		Function: ai.ToolCallFunction{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// mapFinishReason converts a Gemini finish reason to the generic vocabulary.
func mapFinishReason(reason string) string {
	switch reason {
	case "", "STOP":
		return "stop"
	case "MAX_TOKENS":
		return "length"
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII", "IMAGE_SAFETY":
		return "content_filter"
	case "MALFORMED_FUNCTION_CALL", "UNEXPECTED_TOOL_CALL":
		return "error"
	default:
		return strings.ToLower(reason)
	}
}

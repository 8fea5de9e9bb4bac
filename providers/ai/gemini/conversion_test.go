package gemini

import (
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/leofalp/mathagent/internal/jsonschema"
	"github.com/leofalp/mathagent/providers/ai"
)

func TestBuildContents_RoleMapping(t *testing.T) {
	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: "be precise"},
		{Role: ai.RoleUser, Content: "Multiply 15.5 by 4"},
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{
			{ID: "call_1", Type: "function", Function: ai.ToolCallFunction{
				Name:      "basic_calculator",
				Arguments: `{"a": 15.5, "b": 4, "operation": "multiply"}`,
			}},
		}},
		{Role: ai.RoleTool, ToolCallID: "call_1", Name: "basic_calculator", Content: `{"success":true,"result":62}`},
		{Role: ai.RoleAssistant, Content: "The result is 62."},
	}

	contents, err := buildContents(messages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 4 {
		t.Fatalf("expected 4 contents (system excluded), got %d", len(contents))
	}

	wantRoles := []string{"user", "model", "user", "model"}
	for i, role := range wantRoles {
		if contents[i].Role != role {
			t.Errorf("content %d: expected role %q, got %q", i, role, contents[i].Role)
		}
	}

	call := contents[1].Parts[0].FunctionCall
	if call == nil || call.Name != "basic_calculator" || call.ID != "call_1" {
		t.Fatalf("unexpected function call %+v", call)
	}
	if call.Args["a"] != 15.5 || call.Args["operation"] != "multiply" {
		t.Errorf("unexpected args %v", call.Args)
	}

	response := contents[2].Parts[0].FunctionResponse
	if response == nil || response.Name != "basic_calculator" || response.ID != "call_1" {
		t.Fatalf("unexpected function response %+v", response)
	}
	if response.Response["success"] != true || response.Response["result"] != 62.0 {
		t.Errorf("unexpected response payload %v", response.Response)
	}
}

func TestBuildContents_MergesToolResults(t *testing.T) {
	contents, err := buildContents([]ai.Message{
		{Role: ai.RoleUser, Content: "two sums"},
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{
			{ID: "1", Function: ai.ToolCallFunction{Name: "basic_calculator", Arguments: `{"a":1,"b":2,"operation":"add"}`}},
			{ID: "2", Function: ai.ToolCallFunction{Name: "basic_calculator", Arguments: `{"a":3,"b":4,"operation":"add"}`}},
		}},
		{Role: ai.RoleTool, ToolCallID: "1", Name: "basic_calculator", Content: `{"success":true,"result":3}`},
		{Role: ai.RoleTool, ToolCallID: "2", Name: "basic_calculator", Content: `{"success":true,"result":7}`},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 3 {
		t.Fatalf("expected tool results merged into one turn, got %d contents", len(contents))
	}
	if len(contents[2].Parts) != 2 {
		t.Errorf("expected 2 function responses, got %d", len(contents[2].Parts))
	}
}

func TestBuildContents_RepairsArguments(t *testing.T) {
	contents, err := buildContents([]ai.Message{
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{
			{ID: "1", Function: ai.ToolCallFunction{Name: "basic_calculator", Arguments: `{a: 1, b: 2, operation: 'add',}`}},
			{ID: "2", Function: ai.ToolCallFunction{Name: "basic_calculator"}},
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := contents[0].Parts[0].FunctionCall.Args["operation"]; got != "add" {
		t.Errorf("expected repaired arguments, got %v", contents[0].Parts[0].FunctionCall.Args)
	}
	if args := contents[0].Parts[1].FunctionCall.Args; len(args) != 0 {
		t.Errorf("expected empty args, got %v", args)
	}
}

func TestBuildContents_UnknownRole(t *testing.T) {
	if _, err := buildContents([]ai.Message{{Role: "narrator", Content: "x"}}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestToolResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]any
	}{
		{"object", `{"success":false,"error":"Cannot divide by zero"}`, map[string]any{"success": false, "error": "Cannot divide by zero"}},
		{"scalar", `42`, map[string]any{"output": 42.0}},
		{"plain text", `not json`, map[string]any{"output": "not json"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := toolResponse(tc.content)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Errorf("%s: got %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	temperature := float32(0.1)
	params := &jsonschema.Schema{Type: "object", Properties: map[string]*jsonschema.Schema{"a": {Type: "number"}}}

	cfg := buildConfig(ai.ChatRequest{
		SystemPrompt: "You are a precise mathematical assistant.",
		Messages:     []ai.Message{{Role: ai.RoleSystem, Content: "Extra rule."}},
		Tools:        []ai.ToolDescription{{Name: "basic_calculator", Description: "math", Parameters: params}},
		ToolChoice:   &ai.ToolChoice{Mode: "required", Allowed: []string{"basic_calculator"}},
		GenerationConfig: &ai.GenerationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: 256,
		},
	})

	if cfg.SystemInstruction == nil || len(cfg.SystemInstruction.Parts) != 1 {
		t.Fatalf("expected system instruction, got %+v", cfg.SystemInstruction)
	}
	if text := cfg.SystemInstruction.Parts[0].Text; !strings.Contains(text, "precise") || !strings.Contains(text, "Extra rule.") {
		t.Errorf("unexpected system instruction %q", text)
	}

	if len(cfg.Tools) != 1 || len(cfg.Tools[0].FunctionDeclarations) != 1 {
		t.Fatalf("expected one function declaration, got %+v", cfg.Tools)
	}
	declaration := cfg.Tools[0].FunctionDeclarations[0]
	if declaration.Name != "basic_calculator" || declaration.ParametersJsonSchema != params {
		t.Errorf("unexpected declaration %+v", declaration)
	}

	fc := cfg.ToolConfig.FunctionCallingConfig
	if fc.Mode != genai.FunctionCallingConfigModeAny || len(fc.AllowedFunctionNames) != 1 {
		t.Errorf("unexpected function calling config %+v", fc)
	}

	if cfg.Temperature == nil || *cfg.Temperature != 0.1 || cfg.MaxOutputTokens != 256 {
		t.Errorf("unexpected generation settings %v %d", cfg.Temperature, cfg.MaxOutputTokens)
	}
}

func TestBuildToolConfig(t *testing.T) {
	if buildToolConfig(nil) != nil {
		t.Error("nil choice should leave the default")
	}
	if buildToolConfig(&ai.ToolChoice{Mode: "auto"}) != nil {
		t.Error("auto should leave the default")
	}
	if got := buildToolConfig(&ai.ToolChoice{Mode: "none"}); got.FunctionCallingConfig.Mode != genai.FunctionCallingConfigModeNone {
		t.Errorf("unexpected mode %v", got.FunctionCallingConfig.Mode)
	}
}

func TestResponseToGeneric(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		ResponseID:   "resp-1",
		ModelVersion: "gemini-2.5-flash",
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonStop,
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: "Let me compute that."},
				{FunctionCall: &genai.FunctionCall{Name: "basic_calculator", Args: map[string]any{"a": 15.5, "b": 4.0, "operation": "multiply"}}},
			}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     40,
			CandidatesTokenCount: 12,
			TotalTokenCount:      52,
		},
	}

	got := responseToGeneric(resp)

	if got.Id != "resp-1" || got.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected identity %q %q", got.Id, got.Model)
	}
	if got.Content != "Let me compute that." {
		t.Errorf("thought parts must be skipped, got %q", got.Content)
	}
	if got.FinishReason != "tool_calls" {
		t.Errorf("expected tool_calls finish reason, got %q", got.FinishReason)
	}
	if len(got.ToolCalls) != 1 {
		t.Fatalf("expected one tool call, got %d", len(got.ToolCalls))
	}
	call := got.ToolCalls[0]
	if !strings.HasPrefix(call.ID, "call_") || call.Type != "function" || call.Function.Name != "basic_calculator" {
		t.Errorf("unexpected tool call %+v", call)
	}
	if call.Function.Arguments != `{"a":15.5,"b":4,"operation":"multiply"}` {
		t.Errorf("unexpected arguments %s", call.Function.Arguments)
	}
	if got.Usage == nil || got.Usage.PromptTokens != 40 || got.Usage.CompletionTokens != 12 || got.Usage.TotalTokens != 52 {
		t.Errorf("unexpected usage %+v", got.Usage)
	}
}

func TestResponseToGeneric_Blocked(t *testing.T) {
	got := responseToGeneric(&genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
	})
	if got.Refusal != "SAFETY" || got.FinishReason != "content_filter" {
		t.Errorf("unexpected blocked response %+v", got)
	}
}

func TestResponseToGeneric_Empty(t *testing.T) {
	if got := responseToGeneric(nil); got.FinishReason != "error" {
		t.Errorf("nil response: got %q", got.FinishReason)
	}
	if got := responseToGeneric(&genai.GenerateContentResponse{}); got.FinishReason != "stop" || got.Content != "" {
		t.Errorf("no candidates: got %+v", got)
	}
}

func TestMapFinishReason(t *testing.T) {
	tests := map[string]string{
		"":                        "stop",
		"STOP":                    "stop",
		"MAX_TOKENS":              "length",
		"SAFETY":                  "content_filter",
		"PROHIBITED_CONTENT":      "content_filter",
		"MALFORMED_FUNCTION_CALL": "error",
		"OTHER":                   "other",
	}
	for in, want := range tests {
		if got := mapFinishReason(in); got != want {
			t.Errorf("mapFinishReason(%q) = %q, want %q", in, got, want)
		}
	}
}

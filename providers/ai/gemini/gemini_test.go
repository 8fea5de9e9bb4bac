package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/leofalp/mathagent/providers/ai"
)

// newTestProvider points a provider at handler through the SDK's base URL
// override.
func newTestProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := New(context.Background(),
		WithAPIKey("test-key"),
		WithBaseURL(server.URL+"/"),
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return provider
}

func writeJSON(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if _, err := io.WriteString(w, body); err != nil {
		t.Errorf("writing response: %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	provider, err := New(context.Background(), WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if provider.Model() != "gemini-2.5-flash" {
		t.Errorf("expected default model, got %q", provider.Model())
	}
	if provider.Backend() != "gemini-api" {
		t.Errorf("expected gemini-api backend, got %q", provider.Backend())
	}
}

func TestNew_WithModel(t *testing.T) {
	provider, err := New(context.Background(), WithAPIKey("test-key"), WithModel(Model20Flash))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if provider.Model() != Model20Flash {
		t.Errorf("expected %q, got %q", Model20Flash, provider.Model())
	}
}

func TestSendMessage_Text(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		contents, _ := body["contents"].([]any)
		if len(contents) != 1 {
			t.Errorf("expected one content, got %v", body["contents"])
		}

		writeJSON(t, w, `{
			"responseId": "r-1",
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "Hello!"}]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 2, "totalTokenCount": 5}
		}`)
	})

	resp, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if resp.Content != "Hello!" || resp.FinishReason != "stop" || resp.Id != "r-1" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Model != "gemini-2.5-flash" {
		t.Errorf("expected request model to fill in, got %q", resp.Model)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 5 {
		t.Errorf("unexpected usage %+v", resp.Usage)
	}
	if !provider.IsStopMessage(resp) {
		t.Error("text response should stop the turn")
	}
}

func TestSendMessage_FunctionCall(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body := string(raw)
		for _, want := range []string{"basic_calculator", "You are a precise mathematical assistant.", "Multiply 15.5 by 4"} {
			if !strings.Contains(body, want) {
				t.Errorf("request body missing %q: %s", want, body)
			}
		}

		writeJSON(t, w, `{
			"candidates": [{
				"content": {"role": "model", "parts": [{
					"functionCall": {"name": "basic_calculator", "args": {"a": 15.5, "b": 4, "operation": "multiply"}}
				}]},
				"finishReason": "STOP"
			}]
		}`)
	})

	resp, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		SystemPrompt: "You are a precise mathematical assistant.",
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: "Multiply 15.5 by 4 and then tell me the result."}},
		Tools:        []ai.ToolDescription{{Name: "basic_calculator", Description: "arithmetic"}},
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if provider.IsStopMessage(resp) {
		t.Error("function call must not stop the turn")
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Function.Name != "basic_calculator" {
		t.Fatalf("unexpected tool calls %+v", resp.ToolCalls)
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(resp.ToolCalls[0].Function.Arguments), &args); err != nil {
		t.Fatalf("arguments are not JSON: %v", err)
	}
	if args["a"] != 15.5 || args["b"] != 4.0 || args["operation"] != "multiply" {
		t.Errorf("unexpected arguments %v", args)
	}
}

func TestSendMessage_HTTPError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(t, w, `{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`)
	})

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "gemini generate content") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestSendMessage_NoMessages(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleSystem, Content: "only a system prompt"}},
	})
	if err == nil {
		t.Error("expected error for empty conversation")
	}
}

func TestIsStopMessage(t *testing.T) {
	provider := &GeminiProvider{}

	tests := []struct {
		name string
		msg  *ai.ChatResponse
		want bool
	}{
		{"nil", nil, true},
		{"text", &ai.ChatResponse{Content: "62", FinishReason: "stop"}, true},
		{"truncated", &ai.ChatResponse{Content: "6", FinishReason: "length"}, true},
		{"tool call", &ai.ChatResponse{ToolCalls: []ai.ToolCall{{ID: "1"}}, FinishReason: "tool_calls"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := provider.IsStopMessage(tc.msg); got != tc.want {
				t.Errorf("IsStopMessage() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"unavailable", http.StatusServiceUnavailable, true},
		{"bad request", http.StatusBadRequest, false},
		{"forbidden", http.StatusForbidden, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, `{"error": {"code": `+strconv.Itoa(tc.status)+`, "message": "failure", "status": "X"}}`)
			})

			_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
				Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := IsRetryable(err); got != tc.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, got, tc.want)
			}
		})
	}

	if IsRetryable(errors.New("503")) {
		t.Error("plain errors are not API errors")
	}
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
}

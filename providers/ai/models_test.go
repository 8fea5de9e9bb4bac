package ai

import (
	"encoding/json"
	"testing"
)

func TestToolResult_ToJSON(t *testing.T) {
	result := NewToolResultError(ToolErrorInvalidInput, "operation: unsupported value \"power\"")

	encoded, err := result.ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["success"] != false {
		t.Errorf("expected success=false, got %v", decoded["success"])
	}
	if decoded["error"] != ToolErrorInvalidInput {
		t.Errorf("expected error kind %q, got %v", ToolErrorInvalidInput, decoded["error"])
	}
	if decoded["message"] != "operation: unsupported value \"power\"" {
		t.Errorf("unexpected message: %v", decoded["message"])
	}
}

func TestMessage_OmitsEmptyToolFields(t *testing.T) {
	encoded, err := json.Marshal(Message{Role: RoleUser, Content: "Multiply 15.5 by 4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"role":"user","content":"Multiply 15.5 by 4"}`
	if string(encoded) != want {
		t.Errorf("got %s, want %s", encoded, want)
	}
}

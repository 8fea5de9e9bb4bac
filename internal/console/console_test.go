package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/mathagent/agent"
	"github.com/leofalp/mathagent/core/cost"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.User("Multiply 15.5 by 4 and then tell me the result.")
	p.ToolCall("basic_calculator")
	p.Agent("  The result is 62.  \n")
	p.Hallucination(errors.New("operation: Input should be add, subtract, multiply, divide"))

	out := buf.String()
	for _, want := range []string{
		"USER:",
		"Multiply 15.5 by 4 and then tell me the result.",
		"[SYSTEM: Tool call Detected: basic_calculator]",
		"AGENT:",
		"The result is 62.\n",
		"Agent Hallucination detected:",
		"operation: Input should be add, subtract, multiply, divide",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinter_Event(t *testing.T) {
	summary := &cost.Summary{}
	summary.AddUsage(10, 5, 15)

	tests := []struct {
		name  string
		event agent.Event
		want  []string
	}{
		{
			name:  "tool call",
			event: agent.Event{Type: agent.EventToolCall, ToolName: "basic_calculator"},
			want:  []string{"[SYSTEM: Tool call Detected: basic_calculator]"},
		},
		{
			name:  "tool result",
			event: agent.Event{Type: agent.EventToolResult, ToolName: "basic_calculator", ToolOutput: `{"success":true,"result":62}`},
			want:  []string{"basic_calculator returned", `{"success":true,"result":62}`},
		},
		{
			name:  "failed tool result",
			event: agent.Event{Type: agent.EventToolResult, ToolName: "basic_calculator", ToolOutput: `{"success":false}`, ToolError: "invalid_input"},
			want:  []string{"basic_calculator failed (invalid_input)"},
		},
		{
			name:  "final answer",
			event: agent.Event{Type: agent.EventFinalAnswer, Content: "62", Summary: summary},
			want:  []string{"AGENT:", "62", "15"},
		},
		{
			name:  "error",
			event: agent.Event{Type: agent.EventError, Err: errors.New("boom")},
			want:  []string{"ERROR:", "boom"},
		},
		{
			name:  "error without cause",
			event: agent.Event{Type: agent.EventError, Content: "stopped"},
			want:  []string{"ERROR:", "stopped"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf).Event(tc.event)
			for _, want := range tc.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestPrinter_NilSummary(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Summary(nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

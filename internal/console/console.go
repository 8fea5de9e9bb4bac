// Package console renders agent runs for the terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leofalp/mathagent/agent"
	"github.com/leofalp/mathagent/core/cost"
)

// Colors
var (
	userColor    = lipgloss.Color("86")  // Cyan
	agentColor   = lipgloss.Color("229") // Light yellow
	systemColor  = lipgloss.Color("214") // Orange
	errorColor   = lipgloss.Color("196") // Red
	mutedColor   = lipgloss.Color("245") // Gray
	successColor = lipgloss.Color("82")  // Green
)

// Printer writes styled lines to a single writer. Colors are dropped when
// the writer is not a terminal.
type Printer struct {
	out io.Writer

	userStyle    lipgloss.Style
	agentStyle   lipgloss.Style
	systemStyle  lipgloss.Style
	errorStyle   lipgloss.Style
	mutedStyle   lipgloss.Style
	successStyle lipgloss.Style
}

// New returns a Printer writing to out.
func New(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:          out,
		userStyle:    r.NewStyle().Foreground(userColor).Bold(true),
		agentStyle:   r.NewStyle().Foreground(agentColor).Bold(true),
		systemStyle:  r.NewStyle().Foreground(systemColor).Italic(true),
		errorStyle:   r.NewStyle().Foreground(errorColor).Bold(true),
		mutedStyle:   r.NewStyle().Foreground(mutedColor),
		successStyle: r.NewStyle().Foreground(successColor),
	}
}

// User prints the query sent to the agent.
func (p *Printer) User(query string) {
	fmt.Fprintf(p.out, "\n%s %s\n", p.userStyle.Render("USER:"), query)
}

// Agent prints text produced by the model.
func (p *Printer) Agent(text string) {
	fmt.Fprintf(p.out, "%s %s\n", p.agentStyle.Render("AGENT:"), strings.TrimSpace(text))
}

// ToolCall announces that the model requested a tool.
func (p *Printer) ToolCall(name string) {
	fmt.Fprintln(p.out, p.systemStyle.Render(fmt.Sprintf("[SYSTEM: Tool call Detected: %s]", name)))
}

// ToolResult prints a tool output. Failures relayed to the model use the
// error style.
func (p *Printer) ToolResult(name, output, errorKind string) {
	if errorKind != "" {
		fmt.Fprintln(p.out, p.errorStyle.Render(fmt.Sprintf("[SYSTEM: Tool %s failed (%s)]", name, errorKind)), output)
		return
	}
	fmt.Fprintln(p.out, p.mutedStyle.Render(fmt.Sprintf("[SYSTEM: Tool %s returned]", name)), output)
}

// Output prints a raw result, such as a tool output document.
func (p *Printer) Output(text string) {
	fmt.Fprintln(p.out, p.successStyle.Render(text))
}

// Hallucination reports arguments the tool rejected.
func (p *Printer) Hallucination(err error) {
	fmt.Fprintln(p.out, p.errorStyle.Render("Agent Hallucination detected:"), err.Error())
}

// Error reports a failed run.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out, p.errorStyle.Render("ERROR:"), err.Error())
}

// Summary prints token usage and cost of a run.
func (p *Printer) Summary(summary *cost.Summary) {
	if summary == nil {
		return
	}
	fmt.Fprintln(p.out, p.mutedStyle.Render(summary.String()))
}

// Event prints one event of an agent run.
func (p *Printer) Event(event agent.Event) {
	switch event.Type {
	case agent.EventContent:
		p.Agent(event.Content)
	case agent.EventToolCall:
		p.ToolCall(event.ToolName)
	case agent.EventToolResult:
		p.ToolResult(event.ToolName, event.ToolOutput, event.ToolError)
	case agent.EventFinalAnswer:
		p.Agent(event.Content)
		p.Summary(event.Summary)
	case agent.EventError:
		if event.Err != nil {
			p.Error(event.Err)
		} else {
			p.Error(fmt.Errorf("%s", event.Content))
		}
	}
}

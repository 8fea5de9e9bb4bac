package agent

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/leofalp/mathagent/providers/tool"
	"github.com/leofalp/mathagent/providers/tool/calculator"
)

// MathAssistant defaults.
const (
	MathAssistantName        = "MathAssistant"
	MathAssistantInstruction = "You are a precise mathematical assistant. " +
		"You must use the 'basic_calculator' tool for ANY calculation. " +
		"Do not calculate in your head. " +
		"If the tool returns an error, report it to the user."
)

// LlmAgent describes an agent: who it is, which model it talks to, how it is
// instructed and which tools it may call.
type LlmAgent struct {
	Name        string
	Model       string
	Instruction string
	Tools       []tool.GenericTool

	once    sync.Once
	catalog *tool.Catalog
}

// NewLlmAgent validates its arguments and returns the agent. Model may be
// empty to use the provider's default.
func NewLlmAgent(name, model, instruction string, tools ...tool.GenericTool) (*LlmAgent, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("agent: name is required")
	}

	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("agent %s: nil tool", name)
		}
		key := strings.ToLower(t.ToolInfo().Name)
		if key == "" {
			return nil, fmt.Errorf("agent %s: tool without a name", name)
		}
		if seen[key] {
			return nil, fmt.Errorf("agent %s: duplicate tool %q", name, t.ToolInfo().Name)
		}
		seen[key] = true
	}

	return &LlmAgent{
		Name:        name,
		Model:       model,
		Instruction: instruction,
		Tools:       tools,
	}, nil
}

// NewMathAssistant returns the MathAssistant agent wired to the
// basic_calculator tool.
func NewMathAssistant(model string) (*LlmAgent, error) {
	return NewLlmAgent(MathAssistantName, model, MathAssistantInstruction, calculator.NewCalculatorTool())
}

// Catalog returns the agent's tools as a catalog. It is built on first use.
func (a *LlmAgent) Catalog() *tool.Catalog {
	a.once.Do(func() {
		a.catalog = tool.NewCatalogWithTools(a.Tools...)
	})
	return a.catalog
}

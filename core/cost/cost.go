package cost

import "fmt"

// ToolMetrics describes the cost and expected performance of one tool call.
//
//	metrics := cost.ToolMetrics{
//	    Amount:                  0,
//	    Currency:                "USD",
//	    CostDescription:         "local computation",
//	    Accuracy:                1.0,
//	    AverageDurationInMillis: 1,
//	}
type ToolMetrics struct {
	Amount                  float64 `json:"amount"`
	Currency                string  `json:"currency,omitempty"`
	CostDescription         string  `json:"cost_description,omitempty"`
	Accuracy                float64 `json:"accuracy,omitempty"` // 0.0 to 1.0
	AverageDurationInMillis int64   `json:"average_duration_ms,omitempty"`
}

// String formats the cost as "<amount> <currency> (<description>)".
func (m ToolMetrics) String() string {
	currency := m.Currency
	if currency == "" {
		currency = "USD"
	}
	s := fmt.Sprintf("%.6f %s", m.Amount, currency)
	if m.CostDescription != "" {
		s += " (" + m.CostDescription + ")"
	}
	return s
}

// ModelCost holds LLM pricing in USD per million tokens.
type ModelCost struct {
	InputCostPerMillion  float64 `json:"input_cost_per_million"`
	OutputCostPerMillion float64 `json:"output_cost_per_million"`
}

// Cost returns the price of one request with the given token counts.
func (c ModelCost) Cost(promptTokens, completionTokens int) float64 {
	return (float64(promptTokens)*c.InputCostPerMillion + float64(completionTokens)*c.OutputCostPerMillion) / 1_000_000
}

// Summary aggregates tool executions and token usage. The zero value is
// ready to use; it is not safe for concurrent use.
type Summary struct {
	ToolCalls        int     `json:"tool_calls"`
	ToolCost         float64 `json:"tool_cost"`
	LLMRequests      int     `json:"llm_requests"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	LLMCost          float64 `json:"llm_cost"`
}

// AddToolCall records one tool execution. Metrics may be nil.
func (s *Summary) AddToolCall(metrics *ToolMetrics) {
	s.ToolCalls++
	if metrics != nil {
		s.ToolCost += metrics.Amount
	}
}

// AddUsage records one LLM request and its token counts.
func (s *Summary) AddUsage(prompt, completion, total int) {
	s.LLMRequests++
	s.PromptTokens += prompt
	s.CompletionTokens += completion
	s.TotalTokens += total
}

// AddLLMCost adds the estimated price of a request.
func (s *Summary) AddLLMCost(amount float64) {
	s.LLMCost += amount
}

// TotalCost is the LLM and tool cost together.
func (s Summary) TotalCost() float64 {
	return s.LLMCost + s.ToolCost
}

func (s Summary) String() string {
	return fmt.Sprintf("%d LLM requests, %d tokens (prompt %d, completion %d), %d tool calls, total cost %.6f USD",
		s.LLMRequests, s.TotalTokens, s.PromptTokens, s.CompletionTokens, s.ToolCalls, s.TotalCost())
}

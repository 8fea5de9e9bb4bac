package observability

// Attribute keys.
const (
	AttrError = "error"

	AttrLLMProvider     = "llm.provider"
	AttrLLMModel        = "llm.model"
	AttrLLMBackend      = "llm.backend" // "gemini-api" or "vertex-ai"
	AttrLLMFinishReason = "llm.finish_reason"
	AttrLLMResponseID   = "llm.response.id"

	AttrLLMTokensPrompt     = "llm.tokens.prompt"     // #nosec G101 -- LLM tokens, not credentials
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- LLM tokens, not credentials
	AttrLLMTokensTotal      = "llm.tokens.total"      // #nosec G101 -- LLM tokens, not credentials

	AttrRequestMessagesCount = "request.messages_count"
	AttrRequestToolsCount    = "request.tools_count"

	AttrToolName      = "tool.name"
	AttrToolInput     = "tool.input"
	AttrToolOutput    = "tool.output"
	AttrToolDuration  = "tool.duration"
	AttrToolError     = "tool.error"
	AttrToolErrorKind = "tool.error.kind"

	AttrMemoryMessageRole   = "memory.message.role"
	AttrMemoryTotalMessages = "memory.total_messages"

	AttrAppName   = "app.name"
	AttrUserID    = "session.user_id"
	AttrSessionID = "session.id"

	AttrAgentName      = "agent.name"
	AttrAgentIteration = "agent.iteration"
)

// Span names.
const (
	SpanAgentRun    = "agent.run"
	SpanToolExecute = "tool.execute"
)

// Event names.
const (
	EventLLMRequestStart     = "llm.request.start"
	EventLLMRequestEnd       = "llm.request.end"
	EventToolExecutionStart  = "tool.execution.start"
	EventToolExecutionEnd    = "tool.execution.end"
	EventMemoryAppend        = "memory.append"
	EventMemoryClear         = "memory.clear"
	EventAgentIterationStart = "agent.iteration.start"
)

// Counter names.
const (
	MetricToolCalls    = "agent.tool.calls"
	MetricToolFailures = "agent.tool.failures"
	MetricLLMRequests  = "agent.llm.requests"
	MetricLLMTokens    = "agent.llm.tokens" // #nosec G101 -- LLM tokens, not credentials
)

// Package ai defines the provider-agnostic chat types used between the agent
// runtime and LLM backends.
//
// A [Provider] receives a [ChatRequest] holding the conversation history, the
// system instruction and the [ToolDescription] list, and answers with a
// [ChatResponse] that carries text and/or [ToolCall] requests. Tool outcomes
// go back to the model as [RoleTool] messages whose content is usually a
// [ToolResult] encoded as JSON.
package ai

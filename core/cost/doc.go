// Package cost holds per-tool cost metadata ([ToolMetrics]) and the running
// [Summary] of tool executions and token usage accumulated during one agent
// run.
package cost

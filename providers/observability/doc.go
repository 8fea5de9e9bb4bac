// Package observability defines the tracing, metrics and logging interfaces
// used across mathagent, together with the attribute keys and event names
// recorded by the agent runtime, the Gemini provider and the tools.
//
// Components never depend on a concrete backend. The runner stores the active
// [Provider] and [Span] in the request context with [ContextWithObserver] and
// [ContextWithSpan]; providers and tools read them back with
// [ObserverFromContext] and [SpanFromContext] and skip instrumentation when
// they are absent.
package observability

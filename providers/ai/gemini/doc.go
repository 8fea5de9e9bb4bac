// Package gemini implements [ai.Provider] for Google's Gemini models on top of
// the official google.golang.org/genai SDK.
//
// The provider talks to the Gemini Developer API by default and to Vertex AI
// when [WithVertexAI] is set; both authenticate with an API key. Requests are
// converted from [ai.ChatRequest] to genai contents and function declarations,
// and responses are mapped back to [ai.ChatResponse] including tool calls,
// finish reason and token usage. [CalculateCost] estimates the price of a
// response from the published per-token rates in [ModelPricing].
package gemini

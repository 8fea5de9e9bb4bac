package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/leofalp/mathagent/providers/ai"
	"github.com/leofalp/mathagent/providers/observability"
)

// DefaultModel is used when neither the request nor the provider names one.
const DefaultModel = Model25Flash

// GeminiProvider implements the ai.Provider interface for Google's Gemini API.
type GeminiProvider struct {
	client  *genai.Client
	backend genai.Backend
	model   string
}

var _ ai.Provider = (*GeminiProvider)(nil)

type options struct {
	apiKey     string
	vertexAI   bool
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a provider built by [New].
type Option func(*options)

// WithAPIKey sets the API key. Without it the SDK falls back to the
// GOOGLE_API_KEY and GEMINI_API_KEY environment variables.
func WithAPIKey(apiKey string) Option {
	return func(o *options) { o.apiKey = apiKey }
}

// WithVertexAI routes requests to Vertex AI instead of the Gemini Developer API.
func WithVertexAI(enabled bool) Option {
	return func(o *options) { o.vertexAI = enabled }
}

// WithBaseURL overrides the API endpoint, e.g. for a proxy or a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithModel sets the model used when a request does not name one.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// New creates a Gemini provider.
//
//	provider, err := gemini.New(ctx,
//	    gemini.WithAPIKey(cfg.Google.APIKey.Value()),
//	    gemini.WithVertexAI(cfg.Google.UseVertexAI),
//	)
func New(ctx context.Context, opts ...Option) (*GeminiProvider, error) {
	o := &options{model: DefaultModel}
	for _, opt := range opts {
		opt(o)
	}

	cfg := &genai.ClientConfig{
		APIKey:     o.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if o.vertexAI {
		cfg.Backend = genai.BackendVertexAI
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiProvider{
		client:  client,
		backend: cfg.Backend,
		model:   o.model,
	}, nil
}

// Model returns the provider's default model.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Backend returns "gemini-api" or "vertex-ai".
func (p *GeminiProvider) Backend() string {
	if p.backend == genai.BackendVertexAI {
		return "vertex-ai"
	}
	return "gemini-api"
}

// SendMessage implements the ai.Provider interface.
func (p *GeminiProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = p.model
	}

	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, "gemini"),
			observability.String(observability.AttrLLMBackend, p.Backend()),
			observability.String(observability.AttrLLMModel, model),
		)
		defer span.AddEvent(observability.EventLLMRequestEnd)
	}

	if observer != nil {
		observer.Trace(ctx, "Gemini provider preparing request",
			observability.String(observability.AttrLLMModel, model),
			observability.String(observability.AttrLLMBackend, p.Backend()),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
		)
	}

	contents, err := buildContents(request.Messages)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, errors.New("gemini: request has no messages")
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, buildConfig(request))
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "Gemini request failed", observability.Error(err))
		}
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	result := responseToGeneric(resp)
	if result.Model == "" {
		result.Model = model
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMFinishReason, result.FinishReason),
		)
		if result.Usage != nil {
			span.SetAttributes(
				observability.Int(observability.AttrLLMTokensPrompt, result.Usage.PromptTokens),
				observability.Int(observability.AttrLLMTokensCompletion, result.Usage.CompletionTokens),
				observability.Int(observability.AttrLLMTokensTotal, result.Usage.TotalTokens),
			)
		}
	}

	return result, nil
}

// IsStopMessage reports whether the response ends the turn. Any response
// without function calls does, whatever its finish reason.
func (p *GeminiProvider) IsStopMessage(message *ai.ChatResponse) bool {
	return message == nil || len(message.ToolCalls) == 0
}

// EstimateCost returns the USD price of a response on model.
func (p *GeminiProvider) EstimateCost(model string, usage *ai.Usage) float64 {
	return CalculateCost(model, usage)
}

// IsRetryable reports whether err is a transient Gemini API failure: rate
// limiting (429) or a server-side error (500, 502, 503, 504).
func IsRetryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return retryableStatus(apiErrPtr.Code)
	}
	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

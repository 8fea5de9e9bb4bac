package middleware

import (
	"context"

	"github.com/leofalp/mathagent/providers/ai"
)

// SendFunc sends a chat request and returns the completed response. It is
// the unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware wraps the next SendFunc in the chain.
type Middleware func(next SendFunc) SendFunc

// Wrap returns a provider whose SendMessage runs through middlewares before
// reaching provider. The first middleware is the outermost wrapper.
// IsStopMessage and cost estimation are delegated unchanged.
func Wrap(provider ai.Provider, middlewares ...Middleware) *Provider {
	var chain SendFunc = provider.SendMessage
	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}
	return &Provider{inner: provider, send: chain}
}

// Provider is an ai.Provider decorated with middlewares.
type Provider struct {
	inner ai.Provider
	send  SendFunc
}

var _ ai.Provider = (*Provider)(nil)

func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return p.send(ctx, request)
}

func (p *Provider) IsStopMessage(message *ai.ChatResponse) bool {
	return p.inner.IsStopMessage(message)
}

// EstimateCost delegates to the wrapped provider, or returns 0 when it cannot
// price responses.
func (p *Provider) EstimateCost(model string, usage *ai.Usage) float64 {
	estimator, ok := p.inner.(interface {
		EstimateCost(model string, usage *ai.Usage) float64
	})
	if !ok {
		return 0
	}
	return estimator.EstimateCost(model, usage)
}

// Unwrap returns the decorated provider.
func (p *Provider) Unwrap() ai.Provider {
	return p.inner
}

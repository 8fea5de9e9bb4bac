package agent

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/mathagent/core/cost"
	"github.com/leofalp/mathagent/providers/ai"
	"github.com/leofalp/mathagent/providers/observability"
	"github.com/leofalp/mathagent/providers/tool"
)

// DefaultMaxIterations bounds the model round trips of one run.
const DefaultMaxIterations = 5

// ErrMaxIterations is returned when the model keeps calling tools after
// the iteration budget is spent.
var ErrMaxIterations = errors.New("maximum iterations reached")

// CostEstimator is implemented by providers that can price their responses.
type CostEstimator interface {
	EstimateCost(model string, usage *ai.Usage) float64
}

// Runner executes an agent against sessions held by a session service.
type Runner struct {
	Agent          *LlmAgent
	AppName        string
	SessionService *InMemorySessionService
	Provider       ai.Provider

	// MaxIterations defaults to DefaultMaxIterations when zero.
	MaxIterations int

	// Observer overrides the observer found in the run's context.
	Observer observability.Provider
}

// Run appends message to the session history and runs the model/tool loop
// until the model answers without calling tools. Events are yielded as they
// happen; the sequence ends after a final answer or after an error event,
// which is yielded together with its error. Breaking out of the range loop
// stops the run.
func (r *Runner) Run(ctx context.Context, userID, sessionID, message string) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		if err := r.validate(); err != nil {
			yield(r.errorEvent(0, err), err)
			return
		}

		session, err := r.SessionService.GetSession(ctx, r.AppName, userID, sessionID)
		if err != nil {
			yield(r.errorEvent(0, err), err)
			return
		}

		observer := r.Observer
		if observer == nil {
			observer = observability.ObserverFromContext(ctx)
		}
		var span observability.Span
		if observer != nil {
			ctx = observability.ContextWithObserver(ctx, observer)
			ctx, span = observer.StartSpan(ctx, observability.SpanAgentRun,
				observability.String(observability.AttrAgentName, r.Agent.Name),
				observability.String(observability.AttrAppName, r.AppName),
				observability.String(observability.AttrUserID, userID),
				observability.String(observability.AttrSessionID, sessionID),
			)
			defer span.End()
		}

		fail := func(iteration int, err error) {
			if span != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, err.Error())
			}
			if observer != nil {
				observer.Error(ctx, "agent run failed",
					observability.String(observability.AttrAgentName, r.Agent.Name),
					observability.Int(observability.AttrAgentIteration, iteration),
					observability.Error(err),
				)
			}
			yield(r.errorEvent(iteration, err), err)
		}

		session.Memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: message})

		catalog := r.Agent.Catalog()
		tools := catalog.Descriptions()
		var summary cost.Summary

		maxIterations := r.MaxIterations
		if maxIterations <= 0 {
			maxIterations = DefaultMaxIterations
		}

		for iteration := 1; iteration <= maxIterations; iteration++ {
			if err := ctx.Err(); err != nil {
				fail(iteration, err)
				return
			}
			if span != nil {
				span.AddEvent(observability.EventAgentIterationStart,
					observability.Int(observability.AttrAgentIteration, iteration))
			}

			history, err := session.Memory.AllMessages(ctx)
			if err != nil {
				fail(iteration, fmt.Errorf("agent %s: reading history: %w", r.Agent.Name, err))
				return
			}

			resp, err := r.Provider.SendMessage(ctx, ai.ChatRequest{
				Model:        r.Agent.Model,
				SystemPrompt: r.Agent.Instruction,
				Messages:     history,
				Tools:        tools,
			})
			if err != nil {
				fail(iteration, fmt.Errorf("agent %s: iteration %d: %w", r.Agent.Name, iteration, err))
				return
			}
			if resp == nil {
				fail(iteration, fmt.Errorf("agent %s: iteration %d: empty response", r.Agent.Name, iteration))
				return
			}
			r.recordUsage(ctx, observer, resp, &summary)

			if resp.Refusal != "" {
				fail(iteration, fmt.Errorf("agent %s: request blocked by the model: %s", r.Agent.Name, resp.Refusal))
				return
			}

			session.Memory.AppendMessage(ctx, &ai.Message{
				Role:      ai.RoleAssistant,
				Content:   resp.Content,
				ToolCalls: resp.ToolCalls,
			})

			if r.Provider.IsStopMessage(resp) {
				if span != nil {
					span.SetStatus(observability.StatusOK, "")
				}
				final := r.newEvent(EventFinalAnswer, iteration)
				final.Content = resp.Content
				final.Usage = resp.Usage
				final.Summary = &summary
				yield(final, nil)
				return
			}

			if resp.Content != "" {
				event := r.newEvent(EventContent, iteration)
				event.Content = resp.Content
				event.Usage = resp.Usage
				if !yield(event, nil) {
					return
				}
			}

			for _, call := range resp.ToolCalls {
				event := r.newEvent(EventToolCall, iteration)
				event.ToolName = call.Function.Name
				event.ToolCallID = call.ID
				event.ToolInput = call.Function.Arguments
				if !yield(event, nil) {
					return
				}

				output, kind := r.executeTool(ctx, observer, catalog, call, &summary)
				session.Memory.AppendMessage(ctx, &ai.Message{
					Role:       ai.RoleTool,
					Content:    output,
					ToolCallID: call.ID,
					Name:       call.Function.Name,
				})

				result := r.newEvent(EventToolResult, iteration)
				result.ToolName = call.Function.Name
				result.ToolCallID = call.ID
				result.ToolOutput = output
				result.ToolError = kind
				if !yield(result, nil) {
					return
				}
			}
		}

		fail(maxIterations, fmt.Errorf("agent %s: %w (%d)", r.Agent.Name, ErrMaxIterations, maxIterations))
	}
}

// executeTool runs one tool call and returns the content sent back to the
// model together with the error kind, empty on success.
func (r *Runner) executeTool(ctx context.Context, observer observability.Provider, catalog *tool.Catalog, call ai.ToolCall, summary *cost.Summary) (string, string) {
	name := call.Function.Name

	t, ok := catalog.Get(name)
	if !ok {
		return r.toolFailure(ctx, observer, name, ai.ToolErrorNotFound,
			fmt.Sprintf("Tool '%s' not found in catalog", name))
	}
	summary.AddToolCall(t.GetMetrics())

	toolCtx := ctx
	var span observability.Span
	if observer != nil {
		observer.Counter(observability.MetricToolCalls).Add(ctx, 1,
			observability.String(observability.AttrToolName, name))

		toolCtx, span = observer.StartSpan(ctx, observability.SpanToolExecute,
			observability.String(observability.AttrToolName, name))
		defer span.End()
	}

	output, err := t.Call(toolCtx, call.Function.Arguments)
	if err != nil {
		kind := ai.ToolErrorExecutionFailed
		if errors.Is(err, tool.ErrInvalidInput) {
			kind = ai.ToolErrorInvalidInput
		}
		if span != nil {
			span.SetAttributes(observability.String(observability.AttrToolErrorKind, kind))
			span.SetStatus(observability.StatusError, err.Error())
		}
		return r.toolFailure(ctx, observer, name, kind, err.Error())
	}

	if observer != nil {
		observer.Debug(ctx, "tool executed",
			observability.String(observability.AttrToolName, name),
			observability.String(observability.AttrToolOutput, observability.TruncateString(output, 0)),
		)
	}
	return output, ""
}

func (r *Runner) toolFailure(ctx context.Context, observer observability.Provider, name, kind, message string) (string, string) {
	if observer != nil {
		observer.Counter(observability.MetricToolFailures).Add(ctx, 1,
			observability.String(observability.AttrToolName, name),
			observability.String(observability.AttrToolErrorKind, kind))
		observer.Warn(ctx, "tool call failed",
			observability.String(observability.AttrToolName, name),
			observability.String(observability.AttrToolErrorKind, kind),
			observability.String(observability.AttrToolError, message),
		)
	}

	encoded, err := ai.NewToolResultError(kind, message).ToJSON()
	if err != nil {
		encoded = fmt.Sprintf(`{"success":false,"error":%q}`, kind)
	}
	return encoded, kind
}

func (r *Runner) recordUsage(ctx context.Context, observer observability.Provider, resp *ai.ChatResponse, summary *cost.Summary) {
	if observer != nil {
		observer.Counter(observability.MetricLLMRequests).Add(ctx, 1)
	}
	if resp.Usage == nil {
		summary.AddUsage(0, 0, 0)
		return
	}

	summary.AddUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	if estimator, ok := r.Provider.(CostEstimator); ok {
		model := r.Agent.Model
		if model == "" {
			model = resp.Model
		}
		summary.AddLLMCost(estimator.EstimateCost(model, resp.Usage))
	}
	if observer != nil {
		observer.Counter(observability.MetricLLMTokens).Add(ctx, int64(resp.Usage.TotalTokens))
	}
}

func (r *Runner) validate() error {
	switch {
	case r.Agent == nil:
		return errors.New("runner: agent is required")
	case r.Provider == nil:
		return errors.New("runner: provider is required")
	case r.SessionService == nil:
		return errors.New("runner: session service is required")
	case r.AppName == "":
		return errors.New("runner: app name is required")
	}
	return nil
}

func (r *Runner) newEvent(eventType EventType, iteration int) Event {
	author := ""
	if r.Agent != nil {
		author = r.Agent.Name
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Author:    author,
		Iteration: iteration,
		Timestamp: time.Now(),
	}
}

func (r *Runner) errorEvent(iteration int, err error) Event {
	event := r.newEvent(EventError, iteration)
	event.Content = err.Error()
	event.Err = err
	return event
}

package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type mockSpan struct{ name string }

func (m *mockSpan) End() {}
func (m *mockSpan) SetAttributes(attrs ...Attribute) {}
func (m *mockSpan) SetStatus(code StatusCode, desc string) {}
func (m *mockSpan) RecordError(err error) {}
func (m *mockSpan) AddEvent(name string, attrs ...Attribute) {}

type mockObserver struct{}

func (m *mockObserver) StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	return ctx, &mockSpan{name: name}
}
func (m *mockObserver) Counter(name string) Counter { return nil }
func (m *mockObserver) Trace(ctx context.Context, msg string, attrs ...Attribute) {}
func (m *mockObserver) Debug(ctx context.Context, msg string, attrs ...Attribute) {}
func (m *mockObserver) Info(ctx context.Context, msg string, attrs ...Attribute) {}
func (m *mockObserver) Warn(ctx context.Context, msg string, attrs ...Attribute) {}
func (m *mockObserver) Error(ctx context.Context, msg string, attrs ...Attribute) {}

func TestSpanFromContext(t *testing.T) {
	if span := SpanFromContext(context.Background()); span != nil {
		t.Errorf("expected nil span from empty context, got %v", span)
	}

	span := &mockSpan{name: "agent.run"}
	ctx := ContextWithSpan(context.Background(), span)
	if got := SpanFromContext(ctx); got != span {
		t.Errorf("expected stored span, got %v", got)
	}

	//nolint:staticcheck // nil context is tolerated on purpose
	if got := SpanFromContext(ContextWithSpan(nil, span)); got != span {
		t.Errorf("expected span stored on background context, got %v", got)
	}
}

func TestObserverFromContext(t *testing.T) {
	if observer := ObserverFromContext(context.Background()); observer != nil {
		t.Errorf("expected nil observer, got %v", observer)
	}

	observer := &mockObserver{}
	ctx := ContextWithObserver(context.Background(), observer)
	if got := ObserverFromContext(ctx); got != observer {
		t.Errorf("expected stored observer, got %v", got)
	}

	// Span and observer keys must not collide.
	ctx = ContextWithSpan(ctx, &mockSpan{})
	if ObserverFromContext(ctx) != observer {
		t.Error("observer lost after storing a span")
	}
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		attr Attribute
		key  string
		val  any
	}{
		{String("k", "v"), "k", "v"},
		{Int("k", 3), "k", 3},
		{Int64("k", 4), "k", int64(4)},
		{Float64("k", 62.0), "k", 62.0},
		{Bool("k", true), "k", true},
		{Duration("k", time.Second), "k", time.Second},
		{Error(errors.New("boom")), AttrError, "boom"},
		{Error(nil), AttrError, ""},
	}
	for _, tt := range tests {
		if tt.attr.Key != tt.key || tt.attr.Value != tt.val {
			t.Errorf("got %+v, want key=%s value=%v", tt.attr, tt.key, tt.val)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("unexpected truncation: %q", got)
	}

	got := TruncateString(strings.Repeat("x", 20), 5)
	if !strings.HasPrefix(got, "xxxxx...") || !strings.Contains(got, "total: 20 chars") {
		t.Errorf("unexpected truncation: %q", got)
	}

	long := strings.Repeat("y", DefaultMaxStringLength+1)
	if got := TruncateString(long, 0); len(got) <= DefaultMaxStringLength || got == long {
		t.Errorf("expected default truncation, got %d chars", len(got))
	}
}

func TestStatusCode_String(t *testing.T) {
	if StatusOK.String() != "ok" || StatusError.String() != "error" || StatusUnset.String() != "unset" {
		t.Error("unexpected status names")
	}
}

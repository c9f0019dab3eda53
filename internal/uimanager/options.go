package uimanager

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/pubsub"
)

// Option configures a Manager.
type Option func(*Manager)

// WithBroker publishes lifecycle events to p.
func WithBroker(p pubsub.Publisher[Event]) Option {
	return func(m *Manager) {
		m.events = p
	}
}

// WithTracer records spans for open, preload, close and clear.
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) {
		if t != nil {
			m.tracer = t
		}
	}
}

// WithFlags sets the feature flags the manager consults.
func WithFlags(f *flags.Registry) Option {
	return func(m *Manager) {
		m.flags = f
	}
}

// WithStrictInvariants makes invariant violations panic instead of only
// logging them.
func WithStrictInvariants(strict bool) Option {
	return func(m *Manager) {
		m.strict = strict
	}
}

// WithContext sets the parent context for loads. Shutdown cancels a child of it.
func WithContext(ctx context.Context) Option {
	return func(m *Manager) {
		if ctx != nil {
			m.parent = ctx
		}
	}
}

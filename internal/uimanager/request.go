package uimanager

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/strata/internal/asset"
	"github.com/zjrosen/strata/internal/panel"
)

// Request is the outcome of Open or Preload. It resolves on the manager's
// goroutine during Tick or Settle, so waiting on it from that same goroutine
// without driving the manager blocks forever.
type Request struct {
	address panel.Address
	layer   string
	args    []any
	preload bool

	handle  *asset.Handle
	span    trace.Span
	started time.Time

	done chan struct{}
	inst *panel.Instance
	err  error
}

func newRequest(address panel.Address, layerName string, args []any, preload bool) *Request {
	return &Request{
		address: address,
		layer:   layerName,
		args:    args,
		preload: preload,
		started: time.Now(),
		done:    make(chan struct{}),
	}
}

// Address returns the requested address.
func (r *Request) Address() panel.Address { return r.address }

// Done is closed when the request resolves.
func (r *Request) Done() <-chan struct{} { return r.done }

// Resolved reports whether the request has an outcome.
func (r *Request) Resolved() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Err returns the failure, or nil while pending or on success.
func (r *Request) Err() error {
	if !r.Resolved() {
		return nil
	}
	return r.err
}

// Instance returns the shown instance. Nil for preloads, failures and
// pending requests.
func (r *Request) Instance() *panel.Instance {
	if !r.Resolved() {
		return nil
	}
	return r.inst
}

// Wait blocks until the request resolves or ctx is done.
func (r *Request) Wait(ctx context.Context) (*panel.Instance, error) {
	select {
	case <-r.done:
		return r.inst, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Request) complete(inst *panel.Instance, err error) {
	if r.Resolved() {
		return
	}
	r.inst = inst
	r.err = err
	close(r.done)
}

func (r *Request) ready() bool {
	if r.handle == nil {
		return true
	}
	select {
	case <-r.handle.Done():
		return true
	default:
		return false
	}
}

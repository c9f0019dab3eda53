// Package asset resolves panel addresses to loadable resources through
// asynchronous, reference-counted handles.
package asset

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrPending is returned by Handle.Result before the load has completed.
	ErrPending = errors.New("asset load still pending")

	// ErrReleased is returned by Handle.Wait when the handle was released
	// before the caller observed its outcome.
	ErrReleased = errors.New("asset handle released")
)

// Resource is whatever a loader resolves an address to.
type Resource any

// Status is the completion state of a handle.
type Status int

const (
	StatusPending Status = iota
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handle is the future for one load. It starts with one reference; the
// loader's release hook runs exactly once, after the last Release and after
// completion, whichever comes later.
type Handle struct {
	address string

	mu        sync.Mutex
	done      chan struct{}
	status    Status
	resource  Resource
	err       error
	refs      int
	released  bool
	onRelease func(Resource)
}

// NewHandle creates a pending handle. onRelease may be nil.
func NewHandle(address string, onRelease func(Resource)) *Handle {
	return &Handle{
		address:   address,
		done:      make(chan struct{}),
		refs:      1,
		onRelease: onRelease,
	}
}

// Failed returns an already-completed handle carrying err.
func Failed(address string, err error) *Handle {
	h := NewHandle(address, nil)
	h.Resolve(nil, err)
	return h
}

// Address returns the address being loaded.
func (h *Handle) Address() string { return h.address }

// Done is closed once the load completes.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Resolve completes the handle. Only the first call has any effect.
// A nil resource with a nil error counts as a failure.
func (h *Handle) Resolve(res Resource, err error) {
	h.mu.Lock()
	if h.status != StatusPending {
		h.mu.Unlock()
		return
	}
	if err == nil && res == nil {
		err = fmt.Errorf("asset %q resolved to nothing", h.address)
	}
	if err != nil {
		h.status = StatusFailed
		h.err = err
	} else {
		h.status = StatusSucceeded
		h.resource = res
	}
	close(h.done)
	runHook := h.released
	h.mu.Unlock()

	if runHook {
		h.fireRelease()
	}
}

// Status reports the current completion state.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Result returns the outcome without blocking.
func (h *Handle) Result() (Resource, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.status {
	case StatusPending:
		return nil, ErrPending
	case StatusFailed:
		return nil, h.err
	default:
		return h.resource, nil
	}
}

// Wait blocks until the load completes or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Resource, error) {
	select {
	case <-h.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if h.Released() {
		return nil, ErrReleased
	}
	return h.Result()
}

// Retain adds a reference. Retaining a released handle is a no-op.
func (h *Handle) Retain() *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.released {
		h.refs++
	}
	return h
}

// Release drops a reference. When the count reaches zero the release hook runs,
// immediately if the load has completed or on completion otherwise.
func (h *Handle) Release() {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.refs--
	if h.refs > 0 {
		h.mu.Unlock()
		return
	}
	h.released = true
	completed := h.status != StatusPending
	h.mu.Unlock()

	if completed {
		h.fireRelease()
	}
}

// Released reports whether the last reference is gone.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Refs returns the current reference count.
func (h *Handle) Refs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs
}

func (h *Handle) fireRelease() {
	h.mu.Lock()
	hook := h.onRelease
	res := h.resource
	h.onRelease = nil
	h.mu.Unlock()
	if hook != nil {
		hook(res)
	}
}

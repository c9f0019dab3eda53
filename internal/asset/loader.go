package asset

import (
	"context"
	"fmt"
)

// Loader starts the asynchronous resolution of an address. Load must not
// block; the returned handle completes later.
type Loader interface {
	Load(ctx context.Context, address string) *Handle
}

// LoadFunc resolves an address synchronously. Async turns it into a Loader.
type LoadFunc func(ctx context.Context, address string) (Resource, error)

// Async runs fn on its own goroutine per Load call. onRelease, if non-nil, is
// installed as every handle's release hook.
func Async(fn LoadFunc, onRelease func(Resource)) Loader {
	return asyncLoader{fn: fn, onRelease: onRelease}
}

type asyncLoader struct {
	fn        LoadFunc
	onRelease func(Resource)
}

func (l asyncLoader) Load(ctx context.Context, address string) *Handle {
	h := NewHandle(address, l.onRelease)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.Resolve(nil, fmt.Errorf("loader panic for %q: %v", address, r))
			}
		}()
		h.Resolve(l.fn(ctx, address))
	}()
	return h
}

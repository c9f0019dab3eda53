package uimanager

import "errors"

// Sentinel errors for manager operations. Use errors.Is:
//
//	inst, err := m.Open("P", layer.Mid).Wait(ctx)
//	if errors.Is(err, uimanager.ErrLoadFailure) { ... }
var (
	// ErrLoadFailure means the asset for an address could not be resolved.
	// The address returns to unopened and may be retried.
	ErrLoadFailure = errors.New("panel load failed")

	// ErrMissingCapability means the resolved asset is not a panel prefab.
	// Callers treat it like ErrLoadFailure.
	ErrMissingCapability = errors.New("asset is not a panel prefab")

	// ErrDuplicateInstance means an instance was inserted for an address that
	// already has one. It indicates a bug in the caller, not a runtime condition.
	ErrDuplicateInstance = errors.New("panel instance already exists")

	// ErrNotOpen is returned by Close and Hide for an address with no instance.
	ErrNotOpen = errors.New("panel not open")

	// ErrNotInitialized is returned by Open before Initialize.
	ErrNotInitialized = errors.New("panel manager not initialized")

	// ErrUnknownLayer is returned by Open for a layer that was never created.
	ErrUnknownLayer = errors.New("unknown layer")

	// ErrCleared resolves requests that were pending when ClearAll ran.
	ErrCleared = errors.New("panel manager cleared")
)

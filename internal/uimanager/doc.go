// Package uimanager implements the panel manager: an asynchronous
// load, cache, instantiate and display pipeline over reference-counted asset
// handles, a fixed set of z-ordered layers and a navigation history.
//
// # Overview
//
// The package exposes:
//   - Manager: Initialize layers, Open/Close/Hide/Preload panels, Tick per frame.
//   - Request: the pending outcome of Open and Preload.
//   - Navigation: ordered open-panel history with purge-by-identity.
//   - Event: lifecycle notifications published on an optional broker.
//
// # Usage
//
// The host owns the manager and drives it from its own loop:
//
//	m := uimanager.New(loader, uimanager.WithBroker(broker))
//	if err := m.Initialize(layer.DefaultSpecs(), "Panel_Attribute"); err != nil { ... }
//	req := m.Open("Panel_Attribute", layer.Bot)
//	// every frame:
//	m.Tick()
//	// later:
//	_ = m.Close("Panel_Attribute")
//
// Open never blocks. Loads complete on the loader's goroutines; the manager
// only observes them when the host calls Tick (or Settle), so every state
// change happens on the host's goroutine. The Manager itself is not safe for
// concurrent use.
//
// Concurrent opens and preloads of one address share a single load. A failed
// load leaves no cache entry, no instance and no history entry, and the next
// request retries.
package uimanager

// Package flags provides read-only feature flags loaded from configuration.
// Unknown flags are disabled.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/strata/internal/log"
)

const (
	// FlagHistoryDedupe makes re-opening a visible panel move its history
	// entry to the top instead of pushing a second entry.
	FlagHistoryDedupe = "history-dedupe"

	// FlagLogOverlay enables the in-app debug log overlay (ctrl+x).
	FlagLogOverlay = "log-overlay"
)

// Known lists every flag the program reads, for config validation and help.
func Known() []string {
	return []string{FlagHistoryDedupe, FlagLogOverlay}
}

// Registry holds feature flag state. It is read-only after New.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. A nil map disables every flag.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: maps.Clone(flags)}
	if r.flags == nil {
		r.flags = make(map[string]bool)
	}
	for name := range r.flags {
		if !slices.Contains(Known(), name) {
			log.Warn(log.CatConfig, "unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "feature flags initialized", "count", len(r.flags), "flags", r.All())
	return r
}

// Enabled reports whether name is on. Nil registries and unknown flags are off.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}

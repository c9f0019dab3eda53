package presentation

import (
	"maps"
	"slices"

	"github.com/zjrosen/strata/internal/catalog"
)

// DefinitionDTO represents a catalog panel definition for presentation.
type DefinitionDTO struct {
	Address string            `json:"address"`
	Kind    string            `json:"kind"`
	Title   string            `json:"title,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	HasBody bool              `json:"has_body"`
}

// FlagDTO represents one feature flag and its state.
type FlagDTO struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// FromDefinition converts a catalog definition to a DTO.
func FromDefinition(def catalog.Definition) DefinitionDTO {
	return DefinitionDTO{
		Address: def.Address,
		Kind:    def.Kind,
		Title:   def.Title,
		Params:  def.Params,
		HasBody: def.Body != "",
	}
}

// FromDefinitions converts a list of definitions, keeping order.
func FromDefinitions(defs []catalog.Definition) []DefinitionDTO {
	out := make([]DefinitionDTO, len(defs))
	for i, d := range defs {
		out[i] = FromDefinition(d)
	}
	return out
}

// FromFlags converts a flag map to DTOs sorted by name.
func FromFlags(flags map[string]bool) []FlagDTO {
	names := slices.Sorted(maps.Keys(flags))
	out := make([]FlagDTO, len(names))
	for i, n := range names {
		out[i] = FlagDTO{Name: n, Enabled: flags[n]}
	}
	return out
}

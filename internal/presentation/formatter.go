// Package presentation formats catalog and flag listings for the CLI.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

const maxTitleWidth = 32

// Formatter handles output formatting.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter.
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatDefinitionsJSON writes definitions as indented JSON.
func (f *Formatter) FormatDefinitionsJSON(defs []DefinitionDTO) error {
	return f.encode(defs)
}

// FormatFlagsJSON writes flags as indented JSON.
func (f *Formatter) FormatFlagsJSON(flags []FlagDTO) error {
	return f.encode(flags)
}

// FormatDefinitions writes definitions as a bordered table.
func (f *Formatter) FormatDefinitions(defs []DefinitionDTO) error {
	rows := make([][]string, len(defs))
	for i, d := range defs {
		rows[i] = []string{
			d.Address,
			d.Kind,
			runewidth.Truncate(d.Title, maxTitleWidth, "…"),
			formatParams(d.Params),
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ADDRESS", "KIND", "TITLE", "PARAMS").
		Rows(rows...)
	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}

// FormatFlags writes one "name=value" line per flag.
func (f *Formatter) FormatFlags(flags []FlagDTO) error {
	for _, fl := range flags {
		if _, err := fmt.Fprintf(f.writer, "%s=%t\n", fl.Name, fl.Enabled); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return "-"
	}
	keys := slices.Sorted(maps.Keys(params))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	return strings.Join(parts, " ")
}

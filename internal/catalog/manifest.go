package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/strata/internal/log"
)

//go:embed builtin/*.yaml
var builtinManifests embed.FS

// manifest is the on-disk shape of a manifest file.
type manifest struct {
	Panels []Definition `yaml:"panels"`
}

// IsManifest reports whether name looks like a manifest file.
func IsManifest(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// ParseManifest decodes one manifest document. Every definition is validated
// and duplicate addresses within the document are rejected.
func ParseManifest(content []byte) ([]Definition, error) {
	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Panels))
	for _, d := range m.Panels {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if seen[d.Address] {
			return nil, fmt.Errorf("%w: duplicate address %q", ErrInvalidDefinition, d.Address)
		}
		seen[d.Address] = true
	}
	return m.Panels, nil
}

// LoadBuiltin returns the definitions shipped with the binary.
func LoadBuiltin() ([]Definition, error) {
	return loadFromFS(builtinManifests, "builtin")
}

// LoadDir reads every manifest in dir. A missing dir yields no definitions.
// Later files override earlier ones for the same address.
func LoadDir(dir string) ([]Definition, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return loadFromFS(os.DirFS(dir), ".")
}

func loadFromFS(fsys fs.FS, dir string) ([]Definition, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading manifest directory: %w", err)
	}

	var defs []Definition
	index := make(map[string]int)
	for _, entry := range entries {
		if entry.IsDir() || !IsManifest(entry.Name()) {
			continue
		}
		// path.Join, not filepath.Join: fs.FS paths always use forward slashes.
		p := path.Join(dir, entry.Name())
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading manifest %s: %w", p, err)
		}
		parsed, err := ParseManifest(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		for _, d := range parsed {
			if i, ok := index[d.Address]; ok {
				log.Debug(log.CatCatalog, "manifest overrides definition", "address", d.Address, "file", p)
				defs[i] = d
				continue
			}
			index[d.Address] = len(defs)
			defs = append(defs, d)
		}
	}
	return defs, nil
}

// Merge overlays override onto base by address, keeping base order and
// appending new addresses.
func Merge(base, override []Definition) []Definition {
	out := make([]Definition, 0, len(base)+len(override))
	index := make(map[string]int, len(base))
	for _, d := range base {
		index[d.Address] = len(out)
		out = append(out, d)
	}
	for _, d := range override {
		if i, ok := index[d.Address]; ok {
			out[i] = d
			continue
		}
		index[d.Address] = len(out)
		out = append(out, d)
	}
	return out
}

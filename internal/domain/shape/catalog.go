package shape

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Entry is one curated shape of the catalog.
type Entry struct {
	Name  string `yaml:"name"`
	Shape string `yaml:"shape"`
	Note  string `yaml:"note,omitempty"`
	File  string `yaml:"-"` // catalog file the entry came from
}

// Template parses the entry's shape.
func (e Entry) Template() (*Template, error) {
	return Parse(e.Shape)
}

// LoadCatalogFromFS loads every YAML catalog file in dir, in name order.
// Names and shape strings must be unique across files and every shape must
// parse; the first violation aborts the load.
func LoadCatalogFromFS(fsys fs.FS, dir string) ([]Entry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog dir %q", dir)
	}

	// Sort for deterministic load order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var all []Entry
	seenNames := make(map[string]string)  // name -> source file
	seenShapes := make(map[string]string) // shape -> name

	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}

		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", name)
		}

		var file []Entry
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}

		for _, e := range file {
			e.Shape = strings.TrimSpace(e.Shape)
			if e.Name == "" {
				return nil, errors.Newf("%s: entry with shape %q has no name", entry.Name(), e.Shape)
			}
			if prev, ok := seenNames[e.Name]; ok {
				return nil, errors.Newf("duplicate shape name %q (first in %s, again in %s)", e.Name, prev, entry.Name())
			}
			seenNames[e.Name] = entry.Name()

			if prev, ok := seenShapes[e.Shape]; ok {
				return nil, errors.Newf("%s: shape %q of %q duplicates %q", entry.Name(), e.Shape, e.Name, prev)
			}
			seenShapes[e.Shape] = e.Name

			if _, err := Parse(e.Shape); err != nil {
				return nil, errors.Wrapf(err, "%s: shape %q", entry.Name(), e.Name)
			}
			e.File = entry.Name()
			all = append(all, e)
		}
	}

	if len(all) == 0 {
		return nil, errors.Newf("catalog dir %q holds no shapes", dir)
	}
	return all, nil
}

// Shapes returns the shape strings of entries, in order.
func Shapes(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Shape
	}
	return out
}

func isCatalogFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/logger"
	"github.com/corey/shapegen/internal/ports"
	"gopkg.in/yaml.v3"
)

// EmitDoc is the YAML document written for one shape.
type EmitDoc struct {
	Shape       string                  `yaml:"shape"`
	Classes     bool                    `yaml:"classes"`
	Provenance  string                  `yaml:"provenance"`
	Hierarchies []ports.HierarchyRecord `yaml:"hierarchies"`
}

// EmitDoc classifies one shape into a document ready for marshaling.
func (a *App) EmitDoc(s string, includeClasses bool) (*EmitDoc, error) {
	recs, err := a.Emit(s, includeClasses)
	if err != nil {
		return nil, err
	}
	filter, err := a.Config.Filter()
	if err != nil {
		return nil, err
	}
	return &EmitDoc{
		Shape:       strings.TrimSpace(s),
		Classes:     includeClasses,
		Provenance:  filter.String(),
		Hierarchies: recs,
	}, nil
}

// WriteEmit marshals the document of one shape into .shapegen/emit/ and
// returns the file path. The file name is derived from the shape.
func (a *App) WriteEmit(s string, includeClasses bool) (string, error) {
	doc, err := a.EmitDoc(s, includeClasses)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "marshal emit document")
	}
	if err := a.Paths.EnsureDirs(); err != nil {
		return "", errors.Wrap(err, "create emit dir")
	}

	name := EmitFileName(doc.Shape, includeClasses)
	path := filepath.Join(a.Paths.EmitDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	a.log.Infow("emitted", logger.FieldShape, doc.Shape, logger.FieldPath, path, logger.FieldCount, len(doc.Hierarchies))
	return path, nil
}

// EmitFileName maps a shape to a file name: parentheses become "_" and
// whitespace is dropped, so "A(B(c)d)" becomes "A_B_c_d_.yaml". Interface-only
// enumerations get an "-interfaces" suffix.
func EmitFileName(s string, includeClasses bool) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			sb.WriteByte('_')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			sb.WriteRune(r)
		}
	}
	if !includeClasses {
		sb.WriteString("-interfaces")
	}
	sb.WriteString(".yaml")
	return sb.String()
}

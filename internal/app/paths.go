package app

import (
	"os"
	"path/filepath"
)

// DirName is the per-project state directory.
const DirName = ".shapegen"

// Paths holds all resolved filesystem paths for the .shapegen/ project directory.
// All fields are pre-computed strings.
type Paths struct {
	Project string // project root
	Root    string // .shapegen/
	DB      string // .shapegen/shapegen.db
	Config  string // .shapegen/shapegen.toml

	EmitDir string // .shapegen/emit/
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, DirName)
	return &Paths{
		Project: projectRoot,
		Root:    root,
		DB:      filepath.Join(root, "shapegen.db"),
		Config:  filepath.Join(root, "shapegen.toml"),

		EmitDir: filepath.Join(root, "emit"),
	}
}

// EnsureDirs creates all subdirectories under .shapegen/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.EmitDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Resolve makes a configured path absolute against the project root.
// Empty stays empty.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Project, path)
}

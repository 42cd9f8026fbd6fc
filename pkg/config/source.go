package config

import (
	"github.com/arthur-debert/filedb/pkg/types"
)

// Source supplies the current configuration. Callers reload through it
// before every resolution so edits to the backing document are picked up.
type Source interface {
	Load() (*types.Config, error)
}

// FileSource re-reads a configuration file on every Load. Overrides, when
// set, are applied on top of the file and the environment.
type FileSource struct {
	Path      string
	Overrides map[string]interface{}
}

// NewFileSource returns a Source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load() (*types.Config, error) {
	return LoadWithOverrides(s.Path, s.Overrides)
}

// StaticSource serves a fixed configuration.
type StaticSource struct {
	Config *types.Config
}

func (s StaticSource) Load() (*types.Config, error) {
	if err := Validate(s.Config); err != nil {
		return nil, err
	}
	return s.Config, nil
}

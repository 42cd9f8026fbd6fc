package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/paths"
	"github.com/arthur-debert/filedb/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Save writes cfg to path in the format implied by its extension.
func Save(path string, cfg *types.Config) error {
	data, err := marshal(path, cfg)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to encode config for %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create config directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to write config %s", path)
	}
	logger().Debug().Str("path", path).Msg("Configuration saved")
	return nil
}

func marshal(path string, cfg *types.Config) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	default:
		return toml.Marshal(cfg)
	}
}

// EnsureRoot guarantees the configuration at path names an archive root.
// When none is set, the absolute ./output directory is written back to the file.
// Environment overrides are not persisted.
func EnsureRoot(path string) (string, error) {
	cfg, err := load(path, false, nil)
	if err != nil {
		return "", err
	}
	if cfg.Root != "" {
		return cfg.Root, nil
	}

	root, err := paths.DefaultRoot()
	if err != nil {
		return "", err
	}
	cfg.Root = root
	if err := Save(path, cfg); err != nil {
		return "", err
	}
	logger().Info().Str("root", root).Str("path", path).Msg("No archive root configured, using default")
	return root, nil
}

// Starter returns the configuration written by `filedb init`.
func Starter(root string) *types.Config {
	return &types.Config{
		Root: root,
		Rules: []types.Rule{
			{
				Name:      "general",
				Format:    `(?:.*/)?[^/]*?_(?P<year>\d{4})_(?P<month>\d{2})_(?P<day>\d{2})`,
				Folder:    []string{"archive", "year", "month"},
				Store:     "general",
				CachePath: "caches/general.db",
				Labels:    map[string][]string{"date": {"datetime"}},
			},
		},
	}
}

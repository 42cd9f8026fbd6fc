// Test Type: Unit Test
// Description: Tests for configuration loading, validation and persistence

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/filedb/pkg/config"
	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_TOMLRuleList(t *testing.T) {
	path := writeFile(t, "config.toml", `
root = "/srv/archive"

[[rules]]
name = "photos"
format = 'IMG_(?P<year>\d{4})(?P<month>\d{2})'
folder = ["photos", "year"]
store = "general"
cache_path = "caches/photos.db"

[rules.labels]
date = ["year", "month"]

[[rules]]
name = "general"
format = '(?:.*/)?hello_(?P<year>\d{4})_(?P<month>\d{2})_(?P<day>\d{2})'
folder = ["archive", "year", "month"]
plugin = "general"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/archive", cfg.Root)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "photos", cfg.Rules[0].Name)
	assert.Equal(t, "general", cfg.Rules[1].Name)
	assert.Equal(t, []string{"photos", "year"}, cfg.Rules[0].Folder)
	assert.Equal(t, "caches/photos.db", cfg.Rules[0].CachePath)
	assert.Equal(t, []string{"year", "month"}, cfg.Rules[0].Labels["date"])
	assert.Equal(t, "general", cfg.Rules[1].StoreKind())
}

func TestLoad_JSONRuleTable(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "root": "/data",
  "rules": {
    "zeta": {"format": "z_(?P<year>\\d{4})", "folder": ["z", "year"]},
    "general": {
      "format": "hello_(?P<year>\\d{4})_(?P<month>\\d{2})_(?P<day>\\d{2})",
      "folder": ["archive", "year", "month"],
      "plugin": "general",
      "cache_path": "",
      "labels": {"date": ["year", "month", "day"]}
    }
  }
}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "zeta", cfg.Rules[0].Name, "table form keeps document order")
	assert.Equal(t, "general", cfg.Rules[1].Name)
	assert.False(t, cfg.Rules[0].HasStore())
	assert.Equal(t, []string{"year", "month", "day"}, cfg.Rules[1].Labels["date"])
}

func TestLoad_RuleTableKeepsDocumentOrder(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "config.json",
			content: `{
	"root": "/data",
	"rules": {
		"zspecific": {"format": "hello_(?P<year>\\d{4})", "folder": ["hello", "year"], "plugin": "general"},
		"mid": {"format": "mid_(?P<year>\\d{4})"},
		"ageneric": {"format": ".*_(?P<year>\\d{4})", "folder": ["generic", "year"], "plugin": "general"}
	}
}`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `
rules:
  zspecific:
    format: 'hello_(?P<year>\d{4})'
    folder: [hello, year]
  mid:
    format: 'mid_(?P<year>\d{4})'
  ageneric:
    format: '.*_(?P<year>\d{4})'
    folder: [generic, year]
`,
		},
		{
			name: "toml headers",
			file: "config.toml",
			content: `
[rules.zspecific]
format = 'hello_(?P<year>\d{4})'
folder = ["hello", "year"]

[rules.zspecific.labels]
date = ["year"]

[rules.mid]
format = 'mid_(?P<year>\d{4})'

[rules.ageneric]
format = '.*_(?P<year>\d{4})'
folder = ["generic", "year"]
`,
		},
		{
			name: "toml rules table",
			file: "config.toml",
			content: `
[rules]
zspecific = { format = 'hello_(?P<year>\d{4})', folder = ["hello", "year"] }
mid.format = 'mid_(?P<year>\d{4})'
ageneric = { format = '.*_(?P<year>\d{4})', folder = ["generic", "year"] }
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			names := make([]string, 0, len(cfg.Rules))
			for _, r := range cfg.Rules {
				names = append(names, r.Name)
			}
			assert.Equal(t, []string{"zspecific", "mid", "ageneric"}, names)
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
root: /yaml/root
rules:
  - name: logs
    format: 'app-(?P<year>\d{4})'
    folder: [logs, year]
    store: orm
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/yaml/root", cfg.Root)
	assert.Equal(t, "orm", cfg.Rules[0].Store)
}

func TestLoad_EnvOverridesRoot(t *testing.T) {
	path := writeFile(t, "config.toml", `root = "/from/file"`)
	t.Setenv("FILEDB_ROOT", "/from/env")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Root)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_ParseError(t *testing.T) {
	path := writeFile(t, "config.json", `{"root": `)
	_, err := config.Load(path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rules   []types.Rule
		wantErr bool
	}{
		{
			name:  "valid",
			rules: []types.Rule{{Name: "a", Format: `x_(?P<year>\d+)`, Folder: []string{"x", "year"}}},
		},
		{
			name:  "rule without format or folder",
			rules: []types.Rule{{Name: "bare", Store: "general"}},
		},
		{
			name:    "folder references unknown group",
			rules:   []types.Rule{{Name: "a", Format: `x_(?P<year>\d+)`, Folder: []string{"x", "month"}}},
			wantErr: true,
		},
		{
			name:    "invalid regex",
			rules:   []types.Rule{{Name: "a", Format: `x_(?P<year>\d+`}},
			wantErr: true,
		},
		{
			name:    "duplicate names",
			rules:   []types.Rule{{Name: "a"}, {Name: "a"}},
			wantErr: true,
		},
		{
			name:    "group references without format",
			rules:   []types.Rule{{Name: "a", Folder: []string{"x", "year"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.Validate(&types.Config{Rules: tt.rules})
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileSourceReloads(t *testing.T) {
	path := writeFile(t, "config.toml", `root = "/one"`)
	src := config.NewFileSource(path)

	cfg, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, "/one", cfg.Root)

	require.NoError(t, os.WriteFile(path, []byte(`root = "/two"`), 0644))
	cfg, err = src.Load()
	require.NoError(t, err)
	assert.Equal(t, "/two", cfg.Root)
}

func TestFileSourceOverrides(t *testing.T) {
	path := writeFile(t, "config.toml", `root = "/one"`)
	t.Setenv("FILEDB_ROOT", "/env")

	src := &config.FileSource{Path: path, Overrides: map[string]interface{}{"root": "/flag"}}
	cfg, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, "/flag", cfg.Root)

	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/env", cfg.Root)
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"config.toml", "config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := config.Starter("/archive")

			require.NoError(t, config.Save(path, want))

			got, err := config.Load(path)
			require.NoError(t, err)
			assert.Equal(t, want.Root, got.Root)
			require.Len(t, got.Rules, 1)
			assert.Equal(t, want.Rules[0].Format, got.Rules[0].Format)
			assert.Equal(t, want.Rules[0].Folder, got.Rules[0].Folder)
			assert.Equal(t, want.Rules[0].Labels, got.Rules[0].Labels)
		})
	}
}

func TestEnsureRoot(t *testing.T) {
	t.Run("keeps configured root", func(t *testing.T) {
		path := writeFile(t, "config.toml", `root = "/configured"`)
		root, err := config.EnsureRoot(path)
		require.NoError(t, err)
		assert.Equal(t, "/configured", root)
	})

	t.Run("persists default root", func(t *testing.T) {
		path := writeFile(t, "config.toml", `
[[rules]]
name = "general"
store = "general"
`)
		root, err := config.EnsureRoot(path)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(root))
		assert.Equal(t, "output", filepath.Base(root))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, root, cfg.Root)
		assert.Equal(t, "general", cfg.Rules[0].Name)
	})
}

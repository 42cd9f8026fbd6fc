package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	ferrors "github.com/arthur-debert/filedb/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix prefixes environment variables that override configuration keys.
const EnvPrefix = "FILEDB_"

// logger is resolved per call so it follows the logger set up by the CLI.
func logger() *zerolog.Logger {
	l := logging.GetLogger("config")
	return &l
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load reads the configuration at path, layering defaults, the file and the environment.
func Load(path string) (*types.Config, error) {
	return load(path, true, nil)
}

// LoadWithOverrides is Load with a final layer of flat keys, such as
// {"root": "/srv/archive"}, that win over every other source.
func LoadWithOverrides(path string, overrides map[string]interface{}) (*types.Config, error) {
	return load(path, true, overrides)
}

func load(path string, withEnv bool, overrides map[string]interface{}) (*types.Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, ferrors.Wrap(err, ferrors.ErrConfigParse, "failed to load defaults")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, ferrors.Wrapf(err, ferrors.ErrConfigLoad, "config file %s", path)
	}

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, ferrors.Wrapf(err, ferrors.ErrConfigParse, "failed to parse config %s", path)
	}

	if withEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		}), nil)
		if err != nil {
			return nil, ferrors.Wrap(err, ferrors.ErrConfigLoad, "failed to load environment overrides")
		}
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, ferrors.Wrap(err, ferrors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := decode(k, path)
	if err != nil {
		return nil, err
	}

	logger().Debug().
		Str("path", path).
		Str("root", cfg.Root).
		Int("rules", len(cfg.Rules)).
		Msg("Configuration loaded")
	return cfg, nil
}

// parserFor picks a koanf parser from the file extension. Unknown extensions are read as TOML.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml", "":
		return toml.Parser(), nil
	default:
		logger().Debug().Str("path", path).Msg("Unknown config extension, assuming TOML")
		return toml.Parser(), nil
	}
}

type namedDoc struct {
	name string
	doc  interface{}
}

func decode(k *koanf.Koanf, path string) (*types.Config, error) {
	cfg := &types.Config{Root: k.String("root")}

	docs, err := ruleDocuments(k.Get(rulesKey), path)
	if err != nil {
		return nil, err
	}

	for _, d := range docs {
		var r types.Rule
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "koanf",
			WeaklyTypedInput: true,
			Result:           &r,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		})
		if err != nil {
			return nil, ferrors.Wrap(err, ferrors.ErrInternal, "failed to build rule decoder")
		}
		if err := dec.Decode(d.doc); err != nil {
			return nil, ferrors.Wrapf(err, ferrors.ErrConfigParse, "invalid rule %q", d.name)
		}
		if r.Name == "" {
			r.Name = d.name
		}
		if r.Name == "" {
			return nil, ferrors.New(ferrors.ErrConfigInvalid, "rule without a name")
		}
		cfg.Rules = append(cfg.Rules, r)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ruleDocuments normalises both accepted rule layouts to an ordered list. A
// name-keyed table keeps the order its names have in the file at path.
func ruleDocuments(raw interface{}, path string) ([]namedDoc, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		docs := make([]namedDoc, 0, len(v))
		for _, item := range v {
			docs = append(docs, namedDoc{doc: item})
		}
		return docs, nil
	case []map[string]interface{}:
		docs := make([]namedDoc, 0, len(v))
		for _, item := range v {
			docs = append(docs, namedDoc{doc: item})
		}
		return docs, nil
	case map[string]interface{}:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ferrors.Wrapf(err, ferrors.ErrConfigLoad, "config file %s", path)
		}
		order, err := tableOrder(path, data)
		if err != nil {
			return nil, err
		}

		docs := make([]namedDoc, 0, len(v))
		placed := make(map[string]bool, len(v))
		for _, name := range order {
			if doc, ok := v[name]; ok && !placed[name] {
				placed[name] = true
				docs = append(docs, namedDoc{name: name, doc: doc})
			}
		}

		// Names only the environment or overrides introduced come last.
		var rest []string
		for name := range v {
			if !placed[name] {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		for _, name := range rest {
			docs = append(docs, namedDoc{name: name, doc: v[name]})
		}
		return docs, nil
	default:
		return nil, ferrors.Newf(ferrors.ErrConfigParse, "rules must be a list or a table, got %T", raw)
	}
}

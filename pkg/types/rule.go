package types

import (
	"maps"
	"slices"
)

// Config is the loaded configuration: the archive root and the rules in
// their configured order.
type Config struct {
	Root  string `koanf:"root" toml:"root" yaml:"root" json:"root"`
	Rules []Rule `koanf:"rules" toml:"rules" yaml:"rules" json:"rules"`
}

// Rule pairs a filename pattern with a destination template and a store kind.
type Rule struct {
	Name string `koanf:"name" toml:"name" yaml:"name" json:"name"`

	// Format is a regular expression with named groups, matched from the start of the path.
	Format string `koanf:"format" toml:"format,omitempty" yaml:"format,omitempty" json:"format,omitempty"`

	// Folder is a literal first segment followed by group names from Format.
	Folder []string `koanf:"folder" toml:"folder,omitempty" yaml:"folder,omitempty" json:"folder,omitempty"`

	Store string `koanf:"store" toml:"store,omitempty" yaml:"store,omitempty" json:"store,omitempty"`

	// Plugin is the legacy spelling of Store.
	Plugin string `koanf:"plugin" toml:"plugin,omitempty" yaml:"plugin,omitempty" json:"plugin,omitempty"`

	// CachePath is the store location relative to the archive root.
	CachePath string `koanf:"cache_path" toml:"cache_path,omitempty" yaml:"cache_path,omitempty" json:"cache_path,omitempty"`

	// Labels groups column names the store schema is expected to carry.
	Labels map[string][]string `koanf:"labels" toml:"labels,omitempty" yaml:"labels,omitempty" json:"labels,omitempty"`

	// Options holds store-specific settings.
	Options map[string]interface{} `koanf:"options" toml:"options,omitempty" yaml:"options,omitempty" json:"options,omitempty"`
}

// StoreKind returns the configured store kind, honouring the legacy plugin key.
func (r Rule) StoreKind() string {
	if r.Store != "" {
		return r.Store
	}
	return r.Plugin
}

// HasStore reports whether the rule has a metadata store configured.
func (r Rule) HasStore() bool {
	return r.StoreKind() != ""
}

// LabelColumns flattens Labels into a column list, ordered by group name.
func (r Rule) LabelColumns() []string {
	groups := make([]string, 0, len(r.Labels))
	for g := range r.Labels {
		groups = append(groups, g)
	}
	slices.Sort(groups)

	var cols []string
	for _, g := range groups {
		cols = append(cols, r.Labels[g]...)
	}
	return cols
}

// Rule returns the rule with the given name.
func (c *Config) Rule(name string) (Rule, bool) {
	for _, r := range c.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// ResolvedRule is a rule composed with the archive root it resolves against.
// It is built fresh on every resolution; the Config it came from is never modified.
type ResolvedRule struct {
	Rule
	Root string
}

// Resolve composes r with root. Slices and maps are cloned so callers cannot
// reach back into the configuration.
func Resolve(r Rule, root string) ResolvedRule {
	r.Folder = slices.Clone(r.Folder)
	if r.Labels != nil {
		labels := make(map[string][]string, len(r.Labels))
		for k, v := range r.Labels {
			labels[k] = slices.Clone(v)
		}
		r.Labels = labels
	}
	r.Options = maps.Clone(r.Options)
	return ResolvedRule{Rule: r, Root: root}
}

// MatchResult is the outcome of a successful path match.
type MatchResult struct {
	Rule   ResolvedRule
	File   string
	Groups map[string]string
}

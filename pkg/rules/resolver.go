package rules

import (
	"path/filepath"

	"github.com/arthur-debert/filedb/pkg/config"
	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/pattern"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/rs/zerolog"
)

// Resolver matches file paths against the configured rules. It keeps the
// result of the last Match; every call to Match replaces it.
type Resolver struct {
	source config.Source
	logger zerolog.Logger

	config *types.Config
	last   *types.MatchResult
}

// NewResolver creates a resolver reading rules from source.
func NewResolver(source config.Source) *Resolver {
	return &Resolver{
		source: source,
		logger: logging.GetLogger("rules.resolver"),
	}
}

// Reset forgets the last match.
func (r *Resolver) Reset() {
	r.last = nil
}

func (r *Resolver) reload() error {
	cfg, err := r.source.Load()
	if err != nil {
		return err
	}
	r.config = cfg
	return nil
}

// Match reloads the configuration and looks for the first rule, in configured
// order, whose format matches path from its first character. Rules without a
// format are skipped. The first match wins; later rules are not consulted.
func (r *Resolver) Match(path string) (bool, error) {
	r.Reset()
	if err := r.reload(); err != nil {
		return false, err
	}

	for _, rule := range r.config.Rules {
		if rule.Format == "" {
			continue
		}
		re, err := pattern.Compile(rule.Format)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrConfigInvalid, "rule %q has an invalid format", rule.Name)
		}
		groups, ok := pattern.Match(re, path)
		if !ok {
			continue
		}

		r.last = &types.MatchResult{
			Rule:   types.Resolve(rule, r.config.Root),
			File:   path,
			Groups: groups,
		}
		r.logger.Debug().
			Str("file", path).
			Str("rule", rule.Name).
			Interface("groups", groups).
			Msg("Rule matched")
		return true, nil
	}

	r.logger.Debug().Str("file", path).Msg("No rule matched")
	return false, nil
}

// Result returns the last successful match, or nil.
func (r *Resolver) Result() *types.MatchResult {
	return r.last
}

// Destination computes where the last matched file belongs:
// root/folder[0]/<group folder[1]>/.../<file name>. It reports false when
// nothing matched or the matched rule has no folder template.
func (r *Resolver) Destination() (string, bool, error) {
	if r.last == nil {
		return "", false, nil
	}
	return Destination(r.last)
}

// Destination computes the archive path for a match result.
func Destination(m *types.MatchResult) (string, bool, error) {
	folder := m.Rule.Folder
	if len(folder) == 0 {
		return "", false, nil
	}

	segments := make([]string, 0, len(folder)+2)
	segments = append(segments, m.Rule.Root, folder[0])
	for _, name := range folder[1:] {
		value, ok := m.Groups[name]
		if !ok {
			return "", false, errors.Newf(errors.ErrMissingGroup,
				"group %q was not captured from %s by rule %s", name, m.File, m.Rule.Name).
				WithDetail("group", name).
				WithDetail("rule", m.Rule.Name)
		}
		segments = append(segments, value)
	}
	segments = append(segments, filepath.Base(m.File))

	return filepath.Join(segments...), true, nil
}

// Lookup resolves a rule by name without path matching. The configuration is
// reloaded first.
func (r *Resolver) Lookup(name string) (types.ResolvedRule, bool, error) {
	if err := r.reload(); err != nil {
		return types.ResolvedRule{}, false, err
	}
	rule, ok := r.config.Rule(name)
	if !ok {
		return types.ResolvedRule{}, false, nil
	}
	return types.Resolve(rule, r.config.Root), true, nil
}

// Rules returns the rules of the most recently loaded configuration, reloading it first.
func (r *Resolver) Rules() ([]types.ResolvedRule, error) {
	if err := r.reload(); err != nil {
		return nil, err
	}
	out := make([]types.ResolvedRule, 0, len(r.config.Rules))
	for _, rule := range r.config.Rules {
		out = append(out, types.Resolve(rule, r.config.Root))
	}
	return out, nil
}

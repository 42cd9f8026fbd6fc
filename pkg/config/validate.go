package config

import (
	"slices"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/pattern"
	"github.com/arthur-debert/filedb/pkg/types"
)

// Validate checks rule names are unique, formats compile and every folder
// reference after the first segment names a group the format captures.
func Validate(cfg *types.Config) error {
	seen := make(map[string]bool, len(cfg.Rules))

	for _, r := range cfg.Rules {
		if seen[r.Name] {
			return errors.Newf(errors.ErrConfigInvalid, "duplicate rule name %q", r.Name)
		}
		seen[r.Name] = true

		if r.Format == "" {
			if len(r.Folder) > 1 {
				return errors.Newf(errors.ErrConfigInvalid,
					"rule %q references groups in folder but has no format", r.Name)
			}
			continue
		}

		re, err := pattern.Compile(r.Format)
		if err != nil {
			return errors.Wrapf(err, errors.ErrConfigInvalid, "rule %q has an invalid format", r.Name)
		}

		if len(r.Folder) < 2 {
			continue
		}
		groups := pattern.GroupNames(re)
		for _, ref := range r.Folder[1:] {
			if !slices.Contains(groups, ref) {
				return errors.Newf(errors.ErrConfigInvalid,
					"rule %q folder references group %q not defined by its format", r.Name, ref).
					WithDetail("rule", r.Name).
					WithDetail("group", ref)
			}
		}
	}
	return nil
}

package stores

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/pattern"
	"github.com/arthur-debert/filedb/pkg/types"
)

// ExtractTimestamp re-matches the rule's format against the base name of dst
// and builds the event time from the year, month, day, hour, minute and second
// groups. Missing date parts take now's date; missing time parts are zero.
func ExtractTimestamp(rule types.ResolvedRule, dst string, now time.Time) (time.Time, error) {
	name := filepath.Base(dst)

	if rule.Format == "" {
		return time.Time{}, errors.Newf(errors.ErrMalformedPattern, "rule %s has no format to match %s", rule.Name, name)
	}
	re, err := pattern.Compile(rule.Format)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, errors.ErrMalformedPattern, "rule %s has an invalid format", rule.Name)
	}
	groups, ok := pattern.Match(re, name)
	if !ok {
		return time.Time{}, errors.Newf(errors.ErrMalformedPattern,
			"destination name %s does not match the format of rule %s", name, rule.Name).
			WithDetail("rule", rule.Name).
			WithDetail("name", name)
	}

	fields := []struct {
		group string
		def   int
	}{
		{"year", now.Year()},
		{"month", int(now.Month())},
		{"day", now.Day()},
		{"hour", 0},
		{"minute", 0},
		{"second", 0},
	}
	var v [6]int
	for i, f := range fields {
		raw, ok := groups[f.group]
		if !ok {
			v[i] = f.def
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return time.Time{}, errors.Wrapf(err, errors.ErrMalformedPattern,
				"group %s of %s is not a number", f.group, name)
		}
		v[i] = n
	}

	t := time.Date(v[0], time.Month(v[1]), v[2], v[3], v[4], v[5], 0, time.UTC)
	if t.Year() != v[0] || int(t.Month()) != v[1] || t.Day() != v[2] ||
		t.Hour() != v[3] || t.Minute() != v[4] || t.Second() != v[5] {
		return time.Time{}, errors.Newf(errors.ErrMalformedPattern,
			"%s yields an invalid timestamp %04d-%02d-%02d %02d:%02d:%02d", name, v[0], v[1], v[2], v[3], v[4], v[5])
	}
	return t, nil
}

// NewEntry assembles the row a store records for dst: the event timestamp,
// the absolute destination path and the comma-joined tags.
func NewEntry(rule types.ResolvedRule, dst string, tags []string, now time.Time) (types.Entry, error) {
	ts, err := ExtractTimestamp(rule, dst, now)
	if err != nil {
		return types.Entry{}, err
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		return types.Entry{}, errors.Wrapf(err, errors.ErrInternal, "failed to resolve %s", dst)
	}
	return types.Entry{
		Time: ts,
		Path: abs,
		Tags: strings.Join(tags, ","),
	}, nil
}

// Package pattern compiles rule formats into start-anchored regular
// expressions and extracts their named groups.
package pattern

import (
	"regexp"
	"sync"
)

var (
	cacheMu sync.Mutex
	cache   = map[string]*regexp.Regexp{}
)

// Compile returns format compiled so that it only matches at the start of the
// input. Text after the match is allowed. Compiled patterns are cached.
func Compile(format string) (*regexp.Regexp, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if re, ok := cache[format]; ok {
		return re, nil
	}
	re, err := regexp.Compile(`\A(?:` + format + `)`)
	if err != nil {
		return nil, err
	}
	cache[format] = re
	return re, nil
}

// Match applies re to s and returns the named groups that participated in the match.
func Match(re *regexp.Regexp, s string) (map[string]string, bool) {
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return nil, false
	}

	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" || m[2*i] < 0 {
			continue
		}
		groups[name] = s[m[2*i]:m[2*i+1]]
	}
	return groups, true
}

// GroupNames lists the named groups declared by re.
func GroupNames(re *regexp.Regexp) []string {
	var names []string
	for _, name := range re.SubexpNames() {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Package config loads and persists filedb's configuration document.
//
// A configuration carries the archive root and an ordered list of rules.
// Documents may be TOML, JSON or YAML (chosen by file extension). Values are
// layered with koanf: embedded defaults, then the file, then FILEDB_*
// environment variables (FILEDB_ROOT overrides the archive root).
//
// Rules are usually written as an ordered list:
//
//	root = "/srv/archive"
//
//	[[rules]]
//	name   = "general"
//	format = '(?:.*/)?hello_(?P<year>\d{4})_(?P<month>\d{2})_(?P<day>\d{2})'
//	folder = ["archive", "year", "month"]
//	store  = "general"
//	cache_path = "caches/general.db"
//
// The name-keyed table form of older configurations ({"rules": {"general": {...}}})
// is also accepted; its rules are evaluated in the order the file lists them.
package config

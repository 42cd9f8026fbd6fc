package stores

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/google/uuid"
)

// CacheDir is where unnamed store files are created, relative to the archive root.
const CacheDir = "caches"

// Location returns the file a file-backed store should use for rule and makes
// sure its directory exists. A relative cache_path is taken from the archive
// root; an empty one gets a fresh caches/<uuid>.db, so such a rule starts a
// new index every process.
func Location(rule types.ResolvedRule) (string, error) {
	path := rule.CachePath
	switch {
	case path == "":
		path = filepath.Join(rule.Root, CacheDir, uuid.NewString()+".db")
	case !filepath.IsAbs(path):
		path = filepath.Join(rule.Root, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create store directory for rule %s", rule.Name)
	}
	return path, nil
}

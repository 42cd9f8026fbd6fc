package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/filedb/pkg/filesystem"
	"github.com/arthur-debert/filedb/pkg/types"
)

// DateFormat matches names like hello_2022_01_30_x.txt, capturing year, month and day.
const DateFormat = `(?:.*/)?[^/]*?_(?P<year>\d{4})_(?P<month>\d{2})_(?P<day>\d{2})`

// DateRule is a rule filing dated names under folder/<year>/<month>.
func DateRule(name, folder, store string) types.Rule {
	return types.Rule{
		Name:      name,
		Format:    DateFormat,
		Folder:    []string{folder, "year", "month"},
		Store:     store,
		CachePath: filepath.Join("caches", name+".db"),
	}
}

// ResolvedDateRule resolves DateRule against a fresh temporary root.
func ResolvedDateRule(t *testing.T, name, store string) types.ResolvedRule {
	t.Helper()
	return types.Resolve(DateRule(name, "archive", store), t.TempDir())
}

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// FileExists checks if a file exists and is not a directory.
func FileExists(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// MemoryMover returns a Mover over an empty in-memory filesystem.
func MemoryMover() *filesystem.Mover {
	return filesystem.NewMover(filesystem.NewMemory())
}

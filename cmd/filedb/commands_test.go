package filedb

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/filedb/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/arthur-debert/filedb/pkg/stores/builtin"
)

type env struct {
	config string
	root   string
	in     string
}

func setup(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvLogFile, filepath.Join(dir, "filedb.log"))
	return &env{
		config: filepath.Join(dir, "config.toml"),
		root:   filepath.Join(dir, "archive-root"),
		in:     t.TempDir(),
	}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestInitAddSearch(t *testing.T) {
	e := setup(t)

	out, err := e.run(t, "init", "--root", e.root)
	require.NoError(t, err)
	assert.Contains(t, out, e.config)

	_, err = e.run(t, "init")
	assert.Error(t, err, "init must not overwrite without --force")

	src := filepath.Join(e.in, "hello_2022_01_30_x.txt")
	require.NoError(t, os.WriteFile(src, []byte("hi"), 0644))
	unknown := filepath.Join(e.in, "readme.md")
	require.NoError(t, os.WriteFile(unknown, []byte("?"), 0644))

	out, err = e.run(t, "add", "-o", "json", "-t", "count=0", src, unknown)
	require.NoError(t, err)

	var adds []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &adds))
	require.Len(t, adds, 2)
	assert.Equal(t, "added", adds[0]["status"])
	assert.Equal(t, filepath.Join(e.root, "archive", "2022", "01", "hello_2022_01_30_x.txt"), adds[0]["destination"])
	assert.Equal(t, "unknown_file_type", adds[1]["status"])

	out, err = e.run(t, "search", "general", "--start", "2022-01-01", "--end", "2022-03-03", "--tags", "count=0", "-p", "path", "-o", "json")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, adds[0]["destination"], rows[0]["path"])

	out, err = e.run(t, "search", "general", "-o", "json",
		"--query", `{"parameter": ["path"], "starttime": "2022-01-01", "tags": ["count=0", "other"]}`)
	require.NoError(t, err)
	rows = nil
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, adds[0]["destination"], rows[0]["path"])

	out, err = e.run(t, "search", "general", "-o", "json",
		"--query", `{"parameter": "path", "tags": [1, 2]}`, "--end", "2021-12-31")
	require.NoError(t, err)
	rows = nil
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Empty(t, rows)

	_, err = e.run(t, "search", "general", "--query", `{"tags": {"a": 1}}`)
	assert.Error(t, err)

	out, err = e.run(t, "search", "missing", "-o", "text")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAdd_RootOverride(t *testing.T) {
	e := setup(t)
	_, err := e.run(t, "init", "--root", e.root)
	require.NoError(t, err)

	other := filepath.Join(t.TempDir(), "elsewhere")
	src := filepath.Join(e.in, "log_2023_07_04.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	_, err = e.run(t, "add", "--root", other, src)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(other, "archive", "2023", "07", "log_2023_07_04.txt"))
	assert.NoError(t, err)
}

func TestRules(t *testing.T) {
	e := setup(t)
	_, err := e.run(t, "init", "--root", e.root)
	require.NoError(t, err)

	out, err := e.run(t, "rules", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "general\t")
	assert.Contains(t, out, "archive/year/month")
}

func TestAdd_MissingConfig(t *testing.T) {
	e := setup(t)

	_, err := e.run(t, "add", filepath.Join(e.in, "x_2022_01_01.txt"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	e := setup(t)
	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "filedb version")
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitTags([]string{"a", " b ", "", "a"}))
	assert.Nil(t, splitTags(nil))
}

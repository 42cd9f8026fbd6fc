package router

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/filedb/pkg/config"
	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/testutil"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/arthur-debert/filedb/pkg/stores/general"
)

func testConfig(root string) *types.Config {
	return &types.Config{
		Root: root,
		Rules: []types.Rule{
			testutil.DateRule("general", "archive", "general"),
			{
				Name:   "nostore",
				Format: `notes_(?P<year>\d{4})`,
				Folder: []string{"notes", "year"},
			},
			{
				Name:      "nofolder",
				Format:    `flat_(?P<year>\d{4})`,
				Store:     "general",
				CachePath: "caches/flat.db",
			},
		},
	}
}

type fixture struct {
	router *FileRouter
	root   string
	in     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	in := t.TempDir()

	r := New(config.StaticSource{Config: testConfig(root)})
	t.Cleanup(func() { _ = r.Close() })
	return &fixture{router: r, root: root, in: in}
}

func (f *fixture) file(t *testing.T, name string) string {
	t.Helper()
	return testutil.CreateFile(t, f.in, name, "content")
}

func TestAdd_EndToEnd(t *testing.T) {
	f := newFixture(t)
	src := f.file(t, "hello_2022_01_30_x.txt")

	res, err := f.router.Add(src, nil)
	require.NoError(t, err)

	want := filepath.Join(f.root, "archive", "2022", "01", "hello_2022_01_30_x.txt")
	assert.Equal(t, StatusAdded, res.Status)
	assert.Equal(t, "general", res.Rule)
	assert.Equal(t, want, res.Destination)
	assert.Equal(t, int64(len("content")), res.Size)

	assert.True(t, testutil.FileExists(t, want))
	assert.False(t, testutil.FileExists(t, src))

	rs, err := f.router.Search("general", types.Query{StartTime: "2022-01-01", EndTime: "2022-03-03"})
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, want, rs.Records()[0]["path"])
}

func TestAdd_TagsSearchable(t *testing.T) {
	f := newFixture(t)

	_, err := f.router.Add(f.file(t, "a_2022_05_01.txt"), []string{"count=0"})
	require.NoError(t, err)
	_, err = f.router.Add(f.file(t, "b_2022_05_02.txt"), nil)
	require.NoError(t, err)

	rs, err := f.router.Search("general", types.Query{Parameter: []string{"path"}, Tags: []string{"count=0"}})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{filepath.Join(f.root, "archive", "2022", "05", "a_2022_05_01.txt")}, rs.Column("path"))
}

func TestAdd_AlreadyExists(t *testing.T) {
	f := newFixture(t)

	first, err := f.router.Add(f.file(t, "dup_2022_01_30.txt"), nil)
	require.NoError(t, err)
	require.Equal(t, StatusAdded, first.Status)

	again := f.file(t, "dup_2022_01_30.txt")
	second, err := f.router.Add(again, []string{"second"})
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyExists, second.Status)

	_, err = os.Stat(again)
	assert.NoError(t, err, "source must stay in place")

	rs, err := f.router.Search("general", types.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
}

func TestAdd_UnknownFileType(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		file string
	}{
		{"no rule matches", "readme.txt"},
		{"rule without store", "notes_2020.txt"},
		{"rule without folder", "flat_2020.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := f.file(t, tt.file)

			res, err := f.router.Add(src, nil)
			require.NoError(t, err)
			assert.Equal(t, StatusUnknownFileType, res.Status)
			assert.Empty(t, res.Destination)

			_, err = os.Stat(src)
			assert.NoError(t, err)
		})
	}

	assert.False(t, testutil.DirExists(t, filepath.Join(f.root, "caches")), "no store may be opened")
}

func TestAdd_MalformedDestinationPropagates(t *testing.T) {
	root := t.TempDir()
	cfg := &types.Config{Root: root, Rules: []types.Rule{{
		Name:   "dirs",
		Format: `(?P<year>\d{4})/`,
		Folder: []string{"by-year", "year"},
		Store:  "general",
	}}}
	r := New(config.StaticSource{Config: cfg}, WithMover(testutil.MemoryMover()))
	defer r.Close()

	_, err := r.Add("2021/photo.jpg", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedPattern))
}

func TestAdd_MoveFailureLeavesMetadata(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(f.in, "gone_2022_01_30.txt")

	_, err := f.router.Add(missing, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))

	rs, err := f.router.Search("general", types.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
}

func TestSearch_NoStoreIsEmpty(t *testing.T) {
	f := newFixture(t)

	for _, name := range []string{"nostore", "missing"} {
		rs, err := f.router.Search(name, types.Query{})
		require.NoError(t, err)
		assert.Equal(t, 0, rs.Len())
	}
}

func TestRules(t *testing.T) {
	f := newFixture(t)

	rules, err := f.router.Rules()
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, f.root, rules[0].Root)
}

func TestAdd_RuleTableFollowsDocumentOrder(t *testing.T) {
	root := t.TempDir()
	in := t.TempDir()
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{
  "root": "` + filepath.ToSlash(root) + `",
  "rules": {
    "zspecific": {
      "format": "(?:.*/)?hello_(?P<year>\\d{4})_(?P<month>\\d{2})_(?P<day>\\d{2})",
      "folder": ["hello", "year"],
      "plugin": "general",
      "cache_path": "caches/hello.db"
    },
    "ageneric": {
      "format": "(?:.*/)?[^/]*?_(?P<year>\\d{4})_(?P<month>\\d{2})_(?P<day>\\d{2})",
      "folder": ["generic", "year"],
      "plugin": "general",
      "cache_path": "caches/generic.db"
    }
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	r := New(config.NewFileSource(path))
	defer r.Close()

	src := testutil.CreateFile(t, in, "hello_2022_01_30_x.txt", "content")
	res, err := r.Add(src, []string{"count=0"})
	require.NoError(t, err)
	assert.Equal(t, "zspecific", res.Rule)
	assert.Equal(t, filepath.Join(root, "hello", "2022", "hello_2022_01_30_x.txt"), res.Destination)

	rs, err := r.Search("zspecific", types.Query{Tags: []string{"count=0"}})
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
}

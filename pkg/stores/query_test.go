package stores

import (
	"testing"

	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestBuildSelect_Literal(t *testing.T) {
	tests := []struct {
		name  string
		query types.Query
		want  string
	}{
		{
			name: "no filters",
			want: "SELECT * FROM contents;",
		},
		{
			name:  "projection",
			query: types.Query{Parameter: []string{"path", "tags"}},
			want:  "SELECT path,tags FROM contents;",
		},
		{
			name:  "range",
			query: types.Query{StartTime: "2022-01-01", EndTime: "2022-03-03"},
			want:  "SELECT * FROM contents WHERE datetime BETWEEN '2022-01-01' AND '2022-03-03';",
		},
		{
			name:  "start only",
			query: types.Query{StartTime: "2022-01-01"},
			want:  "SELECT * FROM contents WHERE datetime >= '2022-01-01';",
		},
		{
			name:  "end only",
			query: types.Query{EndTime: "2022-01-01"},
			want:  "SELECT * FROM contents WHERE datetime <= '2022-01-01';",
		},
		{
			name:  "one tag",
			query: types.Query{Tags: []string{"red"}},
			want:  "SELECT * FROM contents WHERE tags LIKE '%red%';",
		},
		{
			name:  "tags",
			query: types.Query{Tags: []string{"red", "blue"}},
			want:  "SELECT * FROM contents WHERE tags LIKE '%red%' OR tags LIKE '%blue%';",
		},
		{
			name: "range and tags",
			query: types.Query{
				Parameter: []string{"path"},
				StartTime: "2022-01-01",
				Tags:      []string{"red", "blue"},
			},
			want: "SELECT path FROM contents WHERE datetime >= '2022-01-01' AND (tags LIKE '%red%' OR tags LIKE '%blue%');",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := BuildSelect(DefaultTable, tt.query).Render(false)
			assert.Equal(t, tt.want, sql)
			assert.Empty(t, args)
		})
	}
}

func TestBuildSelect_Bound(t *testing.T) {
	q := types.Query{StartTime: "2022-01-01", EndTime: "2022-02-01", Tags: []string{"x'y"}}

	sql, args := BuildSelect("media", q).Render(true)

	assert.Equal(t, "SELECT * FROM media WHERE datetime BETWEEN ? AND ? AND tags LIKE ?;", sql)
	assert.Equal(t, []interface{}{"2022-01-01", "2022-02-01", "%x'y%"}, args)
}

func TestWhere_Empty(t *testing.T) {
	assert.Nil(t, Where(types.Query{}))
}

func TestInsert_Render(t *testing.T) {
	ins := Insert{
		Table:   DefaultTable,
		Columns: []string{"datetime", "path"},
		Values:  []string{"2022-01-30 00:00:00", "/a/b.txt"},
	}

	sql, args := ins.Render(false)
	assert.Equal(t, "INSERT INTO contents (datetime, path) VALUES ('2022-01-30 00:00:00', '/a/b.txt');", sql)
	assert.Nil(t, args)

	sql, args = ins.Render(true)
	assert.Equal(t, "INSERT INTO contents (datetime, path) VALUES (?, ?);", sql)
	assert.Equal(t, []interface{}{"2022-01-30 00:00:00", "/a/b.txt"}, args)
}

func TestRender_NestedOr(t *testing.T) {
	p := Or{
		And{Compare{Column: "a", Op: "=", Value: "1"}, Compare{Column: "b", Op: "=", Value: "2"}},
		Compare{Column: "c", Op: "=", Value: "3"},
	}
	sql, _ := Render(p, false)
	assert.Equal(t, "(a = '1' AND b = '2') OR c = '3'", sql)
}

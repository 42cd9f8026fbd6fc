package types

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is how event timestamps are stored and compared.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is one logical metadata row.
type Entry struct {
	ID   int64
	Time time.Time
	Path string
	Tags string
}

// Query selects metadata rows. Every field is optional.
type Query struct {
	// Parameter lists the projected columns in order; empty means all columns.
	Parameter []string `json:"parameter,omitempty" yaml:"parameter,omitempty"`

	// StartTime and EndTime bound the event timestamp inclusively.
	StartTime string `json:"starttime,omitempty" yaml:"starttime,omitempty"`
	EndTime   string `json:"endtime,omitempty" yaml:"endtime,omitempty"`

	// Tags are matched by substring containment; any one match selects the row.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ParseTags splits a comma-separated tag string. An empty string yields no tags.
func ParseTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// QueryFromMap builds a Query from a loosely typed document such as decoded JSON.
// "parameter" and "tags" accept either a comma-separated string or a list of scalars.
func QueryFromMap(m map[string]interface{}) (Query, error) {
	var q Query
	var err error

	if v, ok := m["parameter"]; ok && v != nil {
		if q.Parameter, err = toStrings(v); err != nil {
			return Query{}, fmt.Errorf("parameter: %w", err)
		}
	}
	if v, ok := m["starttime"]; ok && v != nil {
		q.StartTime = fmt.Sprint(v)
	}
	if v, ok := m["endtime"]; ok && v != nil {
		q.EndTime = fmt.Sprint(v)
	}
	if v, ok := m["tags"]; ok && v != nil {
		if q.Tags, err = toStrings(v); err != nil {
			return Query{}, fmt.Errorf("tags: %w", err)
		}
	}
	return q, nil
}

func toStrings(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case string:
		return ParseTags(t), nil
	case []string:
		return t, nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprint(e))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

// ResultSet is an ordered sequence of rows with the projected column names.
type ResultSet struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Records returns each row as a column->value map.
func (r *ResultSet) Records() []map[string]interface{} {
	if r == nil {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := make(map[string]interface{}, len(r.Columns))
		for i, col := range r.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

// Column returns the values of the named column, or nil when it is not projected.
func (r *ResultSet) Column(name string) []interface{} {
	if r == nil {
		return nil
	}
	idx := -1
	for i, c := range r.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]interface{}, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, row[idx])
	}
	return out
}

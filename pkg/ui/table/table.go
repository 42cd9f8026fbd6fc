// Package table flattens command results into header and cell rows shared by
// the text and terminal renderers.
package table

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/filedb/pkg/router"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/dustin/go-humanize"
)

// Null is how missing values are shown.
const Null = "NULL"

// Data is a header row followed by cell rows.
type Data [][]string

// FromResultSet lays out search results.
func FromResultSet(rs *types.ResultSet) Data {
	data := Data{append([]string(nil), rs.Columns...)}
	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = Cell(v)
		}
		data = append(data, cells)
	}
	return data
}

// FromAddResults lays out the outcome of an add run.
func FromAddResults(results []router.AddResult) Data {
	data := Data{{"file", "status", "rule", "destination", "size"}}
	for _, r := range results {
		size := ""
		if r.Status == router.StatusAdded {
			size = humanize.Bytes(uint64(r.Size))
		}
		data = append(data, []string{r.File, string(r.Status), r.Rule, r.Destination, size})
	}
	return data
}

// FromRules lays out a rule listing.
func FromRules(rules []types.ResolvedRule) Data {
	data := Data{{"name", "format", "folder", "store", "cache"}}
	for _, r := range rules {
		data = append(data, []string{r.Name, r.Format, strings.Join(r.Folder, "/"), r.StoreKind(), r.CachePath})
	}
	return data
}

// Cell formats one value.
func Cell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return Null
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

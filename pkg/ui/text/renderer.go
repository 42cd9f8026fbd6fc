// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/filedb/pkg/router"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/arthur-debert/filedb/pkg/ui/table"
)

// Renderer writes tab-separated rows
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.ResultSet:
		return r.rows(table.FromResultSet(v))
	case []router.AddResult:
		return r.rows(table.FromAddResults(v))
	case []types.ResolvedRule:
		return r.rows(table.FromRules(v))
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// rows writes data without its header so output can be piped into cut or awk.
func (r *Renderer) rows(data table.Data) error {
	for _, row := range data[1:] {
		if _, err := fmt.Fprintln(r.output, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

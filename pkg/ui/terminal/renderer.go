// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/filedb/pkg/router"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/arthur-debert/filedb/pkg/ui/table"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

// Renderer draws tables with pterm and status lines with lipgloss
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.ResultSet:
		if v.Len() == 0 {
			return r.RenderMessage("No matching entries")
		}
		if err := r.table(table.FromResultSet(v)); err != nil {
			return err
		}
		_, err := fmt.Fprintln(r.output, mutedStyle.Render(fmt.Sprintf("%s rows", humanize.Comma(int64(v.Len())))))
		return err
	case []router.AddResult:
		return r.adds(v)
	case []types.ResolvedRule:
		return r.rules(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) table(data table.Data) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(data)).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.output, out)
	return err
}

func (r *Renderer) adds(results []router.AddResult) error {
	for _, res := range results {
		var line string
		switch res.Status {
		case router.StatusAdded:
			line = fmt.Sprintf("%s %s -> %s %s",
				successStyle.Render("added"),
				res.File,
				pathStyle.Render(res.Destination),
				mutedStyle.Render("("+humanize.Bytes(uint64(res.Size))+")"))
		case router.StatusAlreadyExists:
			line = fmt.Sprintf("%s %s: %s is taken",
				errorStyle.Render("exists"),
				res.File,
				pathStyle.Render(res.Destination))
		default:
			line = fmt.Sprintf("%s %s", warningStyle.Render("skipped"), res.File)
		}
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	return nil
}

// rules renders the listing as markdown through glamour, falling back to
// the raw markdown when rendering fails.
func (r *Renderer) rules(rules []types.ResolvedRule) error {
	md := RulesMarkdown(rules)
	out := md
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err == nil {
		if rendered, rerr := renderer.Render(md); rerr == nil {
			out = rendered
		}
	}
	_, err = fmt.Fprint(r.output, out)
	return err
}

// RulesMarkdown describes rules as a markdown document.
func RulesMarkdown(rules []types.ResolvedRule) string {
	var sb strings.Builder
	sb.WriteString("# Rules\n\n")
	if len(rules) == 0 {
		sb.WriteString("No rules configured.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Archive root: `%s`\n\n", rules[0].Root)
	for i, rule := range rules {
		fmt.Fprintf(&sb, "## %d. %s\n\n", i+1, rule.Name)
		if rule.Format != "" {
			fmt.Fprintf(&sb, "- format: `%s`\n", rule.Format)
		}
		if len(rule.Folder) > 0 {
			fmt.Fprintf(&sb, "- folder: `%s`\n", strings.Join(rule.Folder, "/"))
		}
		if rule.HasStore() {
			fmt.Fprintf(&sb, "- store: %s\n", rule.StoreKind())
		} else {
			sb.WriteString("- store: none, files are skipped\n")
		}
		if rule.CachePath != "" {
			fmt.Fprintf(&sb, "- cache: `%s`\n", rule.CachePath)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, errorStyle.Render("Error:")+" "+err.Error())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

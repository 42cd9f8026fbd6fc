package stores

import (
	"strings"

	"github.com/arthur-debert/filedb/pkg/types"
)

// Predicate is a node of a WHERE clause. It renders either with literal
// values interpolated into single-quoted strings, unescaped, or with "?"
// placeholders and bound arguments.
type Predicate interface {
	render(b *builder)
}

type builder struct {
	sb   strings.Builder
	bind bool
	args []interface{}
}

func (b *builder) value(v string) {
	if b.bind {
		b.sb.WriteString("?")
		b.args = append(b.args, v)
		return
	}
	b.sb.WriteString("'")
	b.sb.WriteString(v)
	b.sb.WriteString("'")
}

// Compare is `column op value`.
type Compare struct {
	Column string
	Op     string
	Value  string
}

func (c Compare) render(b *builder) {
	b.sb.WriteString(c.Column)
	b.sb.WriteString(" ")
	b.sb.WriteString(c.Op)
	b.sb.WriteString(" ")
	b.value(c.Value)
}

// Between is the inclusive range `column BETWEEN low AND high`.
type Between struct {
	Column string
	Low    string
	High   string
}

func (c Between) render(b *builder) {
	b.sb.WriteString(c.Column)
	b.sb.WriteString(" BETWEEN ")
	b.value(c.Low)
	b.sb.WriteString(" AND ")
	b.value(c.High)
}

// Like is `column LIKE pattern`.
type Like struct {
	Column  string
	Pattern string
}

func (c Like) render(b *builder) {
	b.sb.WriteString(c.Column)
	b.sb.WriteString(" LIKE ")
	b.value(c.Pattern)
}

// And joins predicates with AND.
type And []Predicate

func (a And) render(b *builder) { join(b, a, " AND ") }

// Or joins predicates with OR.
type Or []Predicate

func (o Or) render(b *builder) { join(b, o, " OR ") }

func join(b *builder, preds []Predicate, sep string) {
	for i, p := range preds {
		if i > 0 {
			b.sb.WriteString(sep)
		}
		if composite(p) {
			b.sb.WriteString("(")
			p.render(b)
			b.sb.WriteString(")")
			continue
		}
		p.render(b)
	}
}

func composite(p Predicate) bool {
	switch v := p.(type) {
	case And:
		return len(v) > 1
	case Or:
		return len(v) > 1
	}
	return false
}

// Render renders p. With bind false the returned args are nil.
func Render(p Predicate, bind bool) (string, []interface{}) {
	b := &builder{bind: bind}
	p.render(b)
	return b.sb.String(), b.args
}

// Where builds the filter for q: the datetime range, AND the OR-block of tag
// containment tests. It returns nil when q has no filters.
func Where(q types.Query) Predicate {
	var and And

	switch {
	case q.StartTime != "" && q.EndTime != "":
		and = append(and, Between{Column: "datetime", Low: q.StartTime, High: q.EndTime})
	case q.StartTime != "":
		and = append(and, Compare{Column: "datetime", Op: ">=", Value: q.StartTime})
	case q.EndTime != "":
		and = append(and, Compare{Column: "datetime", Op: "<=", Value: q.EndTime})
	}

	if len(q.Tags) > 0 {
		var or Or
		for _, tag := range q.Tags {
			or = append(or, Like{Column: "tags", Pattern: "%" + tag + "%"})
		}
		if len(or) == 1 {
			and = append(and, or[0])
		} else {
			and = append(and, or)
		}
	}

	switch len(and) {
	case 0:
		return nil
	case 1:
		return and[0]
	default:
		return and
	}
}

// Select is a single-table SELECT statement.
type Select struct {
	Table   string
	Columns []string
	Where   Predicate
}

// BuildSelect turns q into a SELECT against table.
func BuildSelect(table string, q types.Query) Select {
	return Select{Table: table, Columns: q.Parameter, Where: Where(q)}
}

// Render renders the statement. Column names are written as given.
func (s Select) Render(bind bool) (string, []interface{}) {
	b := &builder{bind: bind}
	b.sb.WriteString("SELECT ")
	if len(s.Columns) == 0 {
		b.sb.WriteString("*")
	} else {
		b.sb.WriteString(strings.Join(s.Columns, ","))
	}
	b.sb.WriteString(" FROM ")
	b.sb.WriteString(s.Table)
	if s.Where != nil {
		b.sb.WriteString(" WHERE ")
		s.Where.render(b)
	}
	b.sb.WriteString(";")
	return b.sb.String(), b.args
}

// Insert is a single-row INSERT statement.
type Insert struct {
	Table   string
	Columns []string
	Values  []string
}

// Render renders the statement.
func (s Insert) Render(bind bool) (string, []interface{}) {
	b := &builder{bind: bind}
	b.sb.WriteString("INSERT INTO ")
	b.sb.WriteString(s.Table)
	b.sb.WriteString(" (")
	b.sb.WriteString(strings.Join(s.Columns, ", "))
	b.sb.WriteString(") VALUES (")
	for i, v := range s.Values {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.value(v)
	}
	b.sb.WriteString(");")
	return b.sb.String(), b.args
}

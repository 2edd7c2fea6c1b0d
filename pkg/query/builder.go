package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term. Field is resolved through the projection,
// so it may be a view name or a column name.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses a comma-separated sort string such as "name,-createdAt".
// A leading "-" sorts descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// params hands out positional placeholders in render order.
type params struct {
	args []any
}

func (p *params) next(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

type predicate func(p *params) string

var comparisons = map[string]bool{
	"<":  true,
	"<=": true,
	">":  true,
	">=": true,
}

// Builder assembles parameterized SELECT statements over a ProjectionMap.
// Conditions are joined with AND and numbered when the statement is built.
type Builder struct {
	projection *ProjectionMap
	where      []predicate
	sort       []SortField
	fallback   []SortField
}

// NewBuilder creates a Builder. defaultSort applies when no requested sort
// field resolves.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, fallback: defaultSort}
}

// Build returns the ordered SELECT.
func (b *Builder) Build() (string, []any) {
	return b.compose(b.projection.Columns(), true, "")
}

// BuildCount returns a COUNT(*) over the same conditions.
func (b *Builder) BuildCount() (string, []any) {
	return b.compose("COUNT(*)", false, "")
}

// BuildPage returns the ordered SELECT limited to one page. Pages are 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	return b.compose(b.projection.Columns(), true, fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize))
}

// BuildSingle selects one row by idField, ignoring any other conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	var p params
	sql := "SELECT " + b.projection.Columns() +
		" FROM " + b.projection.From() +
		" WHERE " + b.projection.Column(idField) + " = " + p.next(id)
	return sql, p.args
}

// BuildSingleOrNull selects at most one row matching the conditions.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	return b.compose(b.projection.Columns(), false, " LIMIT 1")
}

// OrderByFields replaces the requested sort. Fields the projection cannot
// resolve are dropped; when none remain the default sort applies.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereEquals adds col = value. Nil values are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.and(func(p *params) string {
		return col + " = " + p.next(value)
	})
}

// WhereCompare adds a range condition with <, <=, > or >=. Nil values are
// ignored. Any other operator panics.
func (b *Builder) WhereCompare(field, op string, value any) *Builder {
	if !comparisons[op] {
		panic(fmt.Sprintf("query: unsupported comparison %q", op))
	}
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.and(func(p *params) string {
		return col + " " + op + " " + p.next(value)
	})
}

// WhereContains adds a case-insensitive substring match.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	pattern := "%" + *value + "%"
	return b.and(func(p *params) string {
		return col + " ILIKE " + p.next(pattern)
	})
}

// WhereIn adds col IN (...). An empty list is ignored.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.Column(field)
	return b.and(func(p *params) string {
		holders := make([]string, len(values))
		for i, v := range values {
			holders[i] = p.next(v)
		}
		return col + " IN (" + strings.Join(holders, ", ") + ")"
	})
}

// WhereNullable matches value, or IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		return b.and(func(*params) string { return col + " IS NULL" })
	}
	return b.and(func(p *params) string {
		return col + " = " + p.next(value)
	})
}

// WhereSearch matches search as a substring of any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}
	pattern := "%" + *search + "%"
	return b.and(func(p *params) string {
		terms := make([]string, len(cols))
		for i, col := range cols {
			terms[i] = col + " ILIKE " + p.next(pattern)
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
}

func (b *Builder) and(pred predicate) *Builder {
	b.where = append(b.where, pred)
	return b
}

func (b *Builder) compose(selection string, ordered bool, suffix string) (string, []any) {
	var p params
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(selection)
	sb.WriteString(" FROM ")
	sb.WriteString(b.projection.From())

	for i, pred := range b.where {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(pred(&p))
	}

	if ordered {
		sb.WriteString(b.orderBy())
	}
	sb.WriteString(suffix)

	return sb.String(), p.args
}

func (b *Builder) orderBy() string {
	terms := b.resolve(b.sort)
	if len(terms) == 0 {
		terms = b.resolve(b.fallback)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func (b *Builder) resolve(fields []SortField) []string {
	var terms []string
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		if f.Descending {
			terms = append(terms, col+" DESC")
		} else {
			terms = append(terms, col+" ASC")
		}
	}
	return terms
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

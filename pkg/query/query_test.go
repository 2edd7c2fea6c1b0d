package query_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/warden/pkg/query"
)

func systemsProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "ai_systems", "s").
		Project("id", "ID").
		Project("name", "Name").
		Project("owner_id", "OwnerID").
		Project("risk_tier", "RiskTier").
		Project("created_at", "CreatedAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := systemsProjection()

	assert.Equal(t, "public.ai_systems s", p.Table())
	assert.Equal(t, "s", p.Alias())
	assert.Equal(t, "public.ai_systems s", p.From())
	assert.Equal(t, "s.id, s.name, s.owner_id, s.risk_tier, s.created_at", p.Columns())
	assert.Len(t, p.ColumnList(), 5)
	assert.Equal(t, "s.owner_id", p.Column("OwnerID"))
	assert.Equal(t, "unmapped", p.Column("unmapped"))
}

func TestProjectionMapJoin(t *testing.T) {
	p := query.NewProjectionMap("public", "annex_documents", "d").
		Project("id", "ID").
		Join("public", "ai_systems", "s", "JOIN", "d.system_id = s.id").
		Project("owner_id", "OwnerID")

	assert.Equal(t, "public.annex_documents d", p.Table())
	assert.Equal(t, "public.annex_documents d JOIN public.ai_systems s ON d.system_id = s.id", p.From())
	assert.Equal(t, "d.id, s.owner_id", p.Columns())
	assert.Equal(t, "s.owner_id", p.Column("OwnerID"))
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"single ascending", "Name", []query.SortField{{Field: "Name"}}},
		{"single descending", "-CreatedAt", []query.SortField{{Field: "CreatedAt", Descending: true}}},
		{"mixed with spaces", " Name , -RiskTier ", []query.SortField{
			{Field: "Name"},
			{Field: "RiskTier", Descending: true},
		}},
		{"skips blanks", "Name,,", []query.SortField{{Field: "Name"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilderBuilds(t *testing.T) {
	cols := "s.id, s.name, s.owner_id, s.risk_tier, s.created_at"

	tests := []struct {
		name  string
		build func(*query.Builder) (string, []any)
		sql   string
		args  []any
	}{
		{
			"select",
			func(b *query.Builder) (string, []any) { return b.Build() },
			"SELECT " + cols + " FROM public.ai_systems s",
			nil,
		},
		{
			"count",
			func(b *query.Builder) (string, []any) { return b.BuildCount() },
			"SELECT COUNT(*) FROM public.ai_systems s",
			nil,
		},
		{
			"page",
			func(b *query.Builder) (string, []any) { return b.BuildPage(3, 20) },
			"SELECT " + cols + " FROM public.ai_systems s LIMIT 20 OFFSET 40",
			nil,
		},
		{
			"single",
			func(b *query.Builder) (string, []any) { return b.BuildSingle("ID", "abc") },
			"SELECT " + cols + " FROM public.ai_systems s WHERE s.id = $1",
			[]any{"abc"},
		},
		{
			"single or null",
			func(b *query.Builder) (string, []any) { return b.BuildSingleOrNull() },
			"SELECT " + cols + " FROM public.ai_systems s LIMIT 1",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build(query.NewBuilder(systemsProjection()))
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuilderConditions(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*query.Builder)
		where string
		args  []any
	}{
		{"equals", func(b *query.Builder) { b.WhereEquals("RiskTier", "HIGH") }, " WHERE s.risk_tier = $1", []any{"HIGH"}},
		{"equals nil pointer skipped", func(b *query.Builder) { b.WhereEquals("RiskTier", (*string)(nil)) }, "", nil},
		{"contains", func(b *query.Builder) { b.WhereContains("Name", ptr("Scr")) }, " WHERE s.name ILIKE $1", []any{"%Scr%"}},
		{"contains empty skipped", func(b *query.Builder) { b.WhereContains("Name", ptr("")) }, "", nil},
		{"contains nil skipped", func(b *query.Builder) { b.WhereContains("Name", nil) }, "", nil},
		{"in", func(b *query.Builder) { b.WhereIn("RiskTier", []any{"HIGH", "LIMITED"}) }, " WHERE s.risk_tier IN ($1, $2)", []any{"HIGH", "LIMITED"}},
		{"in empty skipped", func(b *query.Builder) { b.WhereIn("RiskTier", nil) }, "", nil},
		{"nullable nil", func(b *query.Builder) { b.WhereNullable("OwnerID", nil) }, " WHERE s.owner_id IS NULL", nil},
		{"nullable value", func(b *query.Builder) { b.WhereNullable("OwnerID", "ops") }, " WHERE s.owner_id = $1", []any{"ops"}},
		{"search", func(b *query.Builder) { b.WhereSearch(ptr("hire"), "Name", "OwnerID") }, " WHERE (s.name ILIKE $1 OR s.owner_id ILIKE $2)", []any{"%hire%", "%hire%"}},
		{"search nil skipped", func(b *query.Builder) { b.WhereSearch(nil, "Name") }, "", nil},
		{
			"numbering across conditions",
			func(b *query.Builder) {
				b.WhereSearch(ptr("x"), "Name", "OwnerID").
					WhereEquals("RiskTier", "HIGH").
					WhereIn("OwnerID", []any{"a", "b"})
			},
			" WHERE (s.name ILIKE $1 OR s.owner_id ILIKE $2) AND s.risk_tier = $3 AND s.owner_id IN ($4, $5)",
			[]any{"%x%", "%x%", "HIGH", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(systemsProjection())
			tt.apply(b)

			sql, args := b.BuildCount()
			assert.Equal(t, "SELECT COUNT(*) FROM public.ai_systems s"+tt.where, sql)
			if tt.args == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestBuilderOrdering(t *testing.T) {
	defaultSort := query.SortField{Field: "CreatedAt", Descending: true}

	sql, _ := query.NewBuilder(systemsProjection(), defaultSort).BuildPage(1, 1)
	assert.Contains(t, sql, " ORDER BY s.created_at DESC LIMIT 1 OFFSET 0")

	sql, _ = query.NewBuilder(systemsProjection(), defaultSort).
		OrderByFields(query.ParseSortFields("Name,-RiskTier")).
		Build()
	assert.Contains(t, sql, " ORDER BY s.name ASC, s.risk_tier DESC")
	assert.NotContains(t, sql, "created_at DESC")
}

func TestBuilderPageWithConditions(t *testing.T) {
	sql, args := query.NewBuilder(systemsProjection(), query.SortField{Field: "Name"}).
		WhereEquals("OwnerID", "ops").
		BuildPage(2, 10)

	assert.Equal(t,
		"SELECT s.id, s.name, s.owner_id, s.risk_tier, s.created_at FROM public.ai_systems s WHERE s.owner_id = $1 ORDER BY s.name ASC LIMIT 10 OFFSET 10",
		sql,
	)
	assert.Equal(t, []any{"ops"}, args)
}

func TestProjectionMapLookup(t *testing.T) {
	p := systemsProjection()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"view name", "RiskTier", "s.risk_tier", true},
		{"database column", "risk_tier", "s.risk_tier", true},
		{"case-insensitive view", "risktier", "s.risk_tier", true},
		{"unmapped", "password", "", false},
		{"injection", "name; DROP TABLE ai_systems", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Lookup(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilderOrderingDropsUnknownFields(t *testing.T) {
	defaultSort := query.SortField{Field: "CreatedAt", Descending: true}

	sql, _ := query.NewBuilder(systemsProjection(), defaultSort).
		OrderByFields(query.ParseSortFields("bogus,-name")).
		Build()
	assert.True(t, strings.HasSuffix(sql, " ORDER BY s.name DESC"), sql)

	sql, _ = query.NewBuilder(systemsProjection(), defaultSort).
		OrderByFields(query.ParseSortFields("1;DELETE")).
		Build()
	assert.True(t, strings.HasSuffix(sql, " ORDER BY s.created_at DESC"), sql)
}

func TestBuilderWhereCompare(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args := query.NewBuilder(systemsProjection()).
		WhereEquals("RiskTier", "HIGH").
		WhereCompare("CreatedAt", ">=", since).
		WhereCompare("CreatedAt", "<", (*time.Time)(nil)).
		BuildCount()

	assert.Equal(t, "SELECT COUNT(*) FROM public.ai_systems s WHERE s.risk_tier = $1 AND s.created_at >= $2", sql)
	assert.Equal(t, []any{"HIGH", since}, args)

	assert.Panics(t, func() {
		query.NewBuilder(systemsProjection()).WhereCompare("CreatedAt", "= 1 OR", since)
	})
}

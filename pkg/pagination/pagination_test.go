package pagination_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/warden/pkg/pagination"
	"github.com/JaimeStill/warden/pkg/query"
)

var cfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

var env = &pagination.ConfigEnv{
	DefaultPageSize: "TEST_PAGINATION_DEFAULT",
	MaxPageSize:     "TEST_PAGINATION_MAX",
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var c pagination.Config
		require.NoError(t, c.Finalize(nil))
		assert.Equal(t, cfg, c)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_PAGINATION_DEFAULT", "10")
		t.Setenv("TEST_PAGINATION_MAX", "50")

		var c pagination.Config
		require.NoError(t, c.Finalize(env))
		assert.Equal(t, 10, c.DefaultPageSize)
		assert.Equal(t, 50, c.MaxPageSize)
	})

	t.Run("default above max", func(t *testing.T) {
		c := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
		assert.Error(t, c.Finalize(nil))
	})
}

func TestConfigMerge(t *testing.T) {
	c := cfg
	c.Merge(&pagination.Config{MaxPageSize: 500})
	assert.Equal(t, 20, c.DefaultPageSize)
	assert.Equal(t, 500, c.MaxPageSize)
}

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20},
		{"negative page", pagination.PageRequest{Page: -3, PageSize: 5}, 1, 5},
		{"clamped size", pagination.PageRequest{Page: 2, PageSize: 1000}, 2, 100},
		{"valid", pagination.PageRequest{Page: 4, PageSize: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			assert.Equal(t, tt.wantPage, tt.req.Page)
			assert.Equal(t, tt.wantPageSize, tt.req.PageSize)
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	r := pagination.PageRequest{Page: 3, PageSize: 20}
	assert.Equal(t, 40, r.Offset())
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"2"},
		"page_size": {"10"},
		"search":    {"resume"},
		"sort":      {"name,-created_at"},
	}

	r := pagination.PageRequestFromQuery(values, cfg)
	assert.Equal(t, 2, r.Page)
	assert.Equal(t, 10, r.PageSize)
	require.NotNil(t, r.Search)
	assert.Equal(t, "resume", *r.Search)
	assert.Equal(t, pagination.SortFields{
		{Field: "name"},
		{Field: "created_at", Descending: true},
	}, r.Sort)

	empty := pagination.PageRequestFromQuery(url.Values{"page": {"x"}, "search": {"   "}}, cfg)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 20, empty.PageSize)
	assert.Nil(t, empty.Search)
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name  string
		total int
		size  int
		want  int
	}{
		{"exact", 40, 20, 2},
		{"remainder", 41, 20, 3},
		{"empty", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pagination.NewPageResult([]int{1}, tt.total, 1, tt.size)
			assert.Equal(t, tt.want, r.TotalPages)
		})
	}

	nilData := pagination.NewPageResult[string](nil, 0, 1, 20)
	assert.NotNil(t, nilData.Data)
	assert.Empty(t, nilData.Data)
	assert.False(t, nilData.HasNext)
	assert.False(t, nilData.HasPrevious)

	middle := pagination.NewPageResult([]int{1}, 50, 2, 20)
	assert.True(t, middle.HasNext)
	assert.True(t, middle.HasPrevious)

	last := pagination.NewPageResult([]int{1}, 50, 3, 20)
	assert.False(t, last.HasNext)

	zeroSize := pagination.NewPageResult([]int{1}, 3, 1, 0)
	assert.Equal(t, 1, zeroSize.PageSize)
	assert.Equal(t, 3, zeroSize.TotalPages)
}

func TestMapPage(t *testing.T) {
	src := pagination.NewPageResult([]int{1, 2}, 5, 1, 2)
	got := pagination.MapPage(src, func(n int) string { return strings.Repeat("*", n) })

	assert.Equal(t, []string{"*", "**"}, got.Data)
	assert.Equal(t, 3, got.TotalPages)
	assert.True(t, got.HasNext)
}

func TestSortFieldsUnmarshal(t *testing.T) {
	var fromString pagination.SortFields
	require.NoError(t, json.Unmarshal([]byte(`"-score,name"`), &fromString))
	assert.Equal(t, pagination.SortFields{
		{Field: "score", Descending: true},
		{Field: "name"},
	}, fromString)

	var fromArray pagination.SortFields
	require.NoError(t, json.Unmarshal([]byte(`[{"Field":"tier","Descending":true}]`), &fromArray))
	assert.Equal(t, pagination.SortFields{query.SortField{Field: "tier", Descending: true}}, fromArray)

	var bad pagination.SortFields
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}
